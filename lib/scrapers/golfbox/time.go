package golfbox

import (
	"time"

	"golfkollektivet-backend/lib/timezone"
)

// textual formats at the api boundary and golfbox's own convention
const (
	ScoreDateLayout = "02.01.2006"
	ScoreTimeLayout = "15:04"

	registryTimestampLayout = "20060102T150405"
)

func registryTimestamp(scoreDate, scoreTime string) (string, error) {
	t, err := time.ParseInLocation(
		ScoreDateLayout+" "+ScoreTimeLayout,
		scoreDate+" "+scoreTime,
		timezone.Location,
	)
	if err != nil {
		return "", err
	}
	return t.Format(registryTimestampLayout), nil
}

func registryDate(scoreDate string) (string, error) {
	t, err := time.ParseInLocation(ScoreDateLayout, scoreDate, timezone.Location)
	if err != nil {
		return "", err
	}
	return t.Format(registryTimestampLayout), nil
}
