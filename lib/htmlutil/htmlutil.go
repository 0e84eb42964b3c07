package htmlutil

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

type HiddenInput struct {
	Name  string
	Value string
}

// HiddenInputs returns every <input type="hidden"> in document order.
func HiddenInputs(doc *goquery.Document) []HiddenInput {
	var inputs []HiddenInput
	doc.Find("input[type=hidden]").Each(func(_ int, sel *goquery.Selection) {
		inputs = append(inputs, HiddenInput{
			Name:  sel.AttrOr("name", ""),
			Value: sel.AttrOr("value", ""),
		})
	})
	return inputs
}

type SelectOption struct {
	Text  string
	Value string
}

// SelectOptions returns the options of <select id="..."> in document
// order. A missing select yields nil.
func SelectOptions(doc *goquery.Document, id string) []SelectOption {
	var options []SelectOption
	doc.Find(fmt.Sprintf("select#%s option", id)).Each(func(_ int, sel *goquery.Selection) {
		options = append(options, SelectOption{
			Text:  sel.Text(),
			Value: sel.AttrOr("value", ""),
		})
	})
	return options
}

// ExtractToken returns the first capture group of the pattern's first
// match, or "" when the body does not match. This is the single chokepoint
// for scraping tokens embedded in third-party markup.
func ExtractToken(body string, pattern *regexp.Regexp) string {
	groups := pattern.FindStringSubmatch(body)
	if len(groups) < 2 {
		return ""
	}
	return groups[1]
}
