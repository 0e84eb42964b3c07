package golfbox

import (
	"context"
	"fmt"
	"log/slog"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golfkollektivet-backend/lib/htmlutil"
	"golfkollektivet-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/golfbox")

const DefaultBaseUrl = "https://www.golfbox.no"

var ErrLoginFailed = fmt.Errorf("golfbox rejected the login")

// Client owns one cookie-bearing http client, i.e. one logged-in
// golfbox session. Concurrent submissions must each use their own
// Client so cookie jars never mix.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	BaseUrl string
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/golfbox/http")

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}, nil
}

var hcpRegex = regexp.MustCompile(`HCP[^0-9]*([0-9]{1,2},[0-9])`)
var selectedGuidRegex = regexp.MustCompile(`(?i)newWHSScore\.asp\?selected=\{([A-F0-9\-]+)\}`)

type LoginResult struct {
	// current handicap as rendered on the front page, comma decimal
	// separator, empty when it could not be scraped
	Hcp string
	// brace-wrapped session guid required by every authenticated call,
	// empty when it could not be scraped
	SelectedGuid string
}

// Login posts the golfbox login form and scrapes the front page for the
// handicap and the session guid. Either scrape may come back empty
// without failing the login itself; callers decide what is fatal.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"loginform.submitted": "true",
			"command":             "login",
			"loginform.rurl":      "",
			"loginform.username":  username,
			"loginform.password":  password,
		}).
		Post("/login.asp?rUrl=")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to post login form")
		return LoginResult{}, err
	}
	if !res.IsSuccess() {
		span.SetStatus(codes.Error, ErrLoginFailed.Error())
		return LoginResult{}, ErrLoginFailed
	}

	res, err = c.Http.R().
		SetContext(ctx).
		Get("/site/my_golfbox/myFrontPage.asp")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch front page after login")
		return LoginResult{}, err
	}

	frontPage := res.String()
	// the portal has no explicit success code, the front page marker is
	// the only signal that the session is authenticated
	if !strings.Contains(frontPage, "GolfBox Player") {
		span.SetStatus(codes.Error, ErrLoginFailed.Error())
		return LoginResult{}, ErrLoginFailed
	}

	result := LoginResult{
		Hcp: htmlutil.ExtractToken(frontPage, hcpRegex),
	}
	if guid := htmlutil.ExtractToken(frontPage, selectedGuidRegex); guid != "" {
		result.SelectedGuid = fmt.Sprintf("{%s}", guid)
	}

	if result.Hcp == "" {
		slog.WarnContext(ctx, "could not extract hcp from front page", "user", username)
	}
	if result.SelectedGuid == "" {
		slog.WarnContext(ctx, "could not extract selected guid from front page", "user", username)
	}

	return result, nil
}

// Logout is fire-and-forget, a failed logout must never mask an
// otherwise successful submission.
func (c *Client) Logout(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "client:Logout")
	defer span.End()

	_, err := c.Http.R().
		SetContext(ctx).
		Get("/logoff.asp?sessiontimeout=1")
	if err != nil {
		slog.WarnContext(ctx, "logout request failed", "err", err)
	}
}
