package htmlutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	// the expected json-ld product block is missing or unparseable,
	// usually a sign the retailer changed its page template
	ErrMalformedJsonLd = errors.New("malformed product json-ld")
	// a price field is present but is not a valid decimal amount
	ErrPriceParse = errors.New("unparseable price")
)

func Document(body []byte) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(body))
}

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

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// collapses the whitespace soup retailers leave in product names
func CleanText(s string) string {
	s = removeNonPrintable(s)
	s = strings.Trim(s, " \t\n")
	s = innerWhitespace.ReplaceAllString(s, " ")
	return s
}

// MetaContent returns the content of the first meta tag whose
// property or name attribute matches. absence is not an error,
// callers decide whether it is fatal.
func MetaContent(doc *goquery.Document, property string) (string, bool) {
	sel := doc.Find(fmt.Sprintf(`meta[property=%q], meta[name=%q]`, property, property))
	if sel.Length() == 0 {
		return "", false
	}
	return sel.First().AttrOr("content", ""), true
}

// retailers emit offer prices both as json numbers and as strings
type PriceValue string

func (p *PriceValue) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*p = PriceValue(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*p = PriceValue(s)
	return nil
}

func (p PriceValue) String() string {
	return string(p)
}

type Offer struct {
	Price        PriceValue `json:"price"`
	Availability string     `json:"availability"`
}

type ProductLd struct {
	Type   string          `json:"@type"`
	Name   string          `json:"name"`
	Gtin13 string          `json:"gtin13"`
	Offers json.RawMessage `json:"offers"`
}

// FirstOffer returns the first offer declared by the product block.
// retailers emit offers as a single object, an array, or an
// AggregateOffer with a nested "offers" array; only the first entry
// is inspected.
func (p ProductLd) FirstOffer() (Offer, bool) {
	trimmed := bytes.TrimSpace(p.Offers)
	if len(trimmed) == 0 {
		return Offer{}, false
	}

	if trimmed[0] == '[' {
		var list []Offer
		err := json.Unmarshal(trimmed, &list)
		if err != nil || len(list) == 0 {
			return Offer{}, false
		}
		return list[0], true
	}

	var nested struct {
		Offer
		Offers []Offer `json:"offers"`
	}
	err := json.Unmarshal(trimmed, &nested)
	if err != nil {
		return Offer{}, false
	}
	if len(nested.Offers) > 0 {
		return nested.Offers[0], true
	}
	if nested.Availability == "" && nested.Price == "" {
		return Offer{}, false
	}
	return nested.Offer, true
}

// ProductJsonLd locates the embedded json-ld script tagged as product
// data and parses it. a missing or unparseable block is raised, not
// swallowed, since silently continuing would produce wrong data.
func ProductJsonLd(doc *goquery.Document) (ProductLd, error) {
	sel := doc.Find(`script[type="application/ld+json"]`)
	for _, node := range sel.Nodes {
		var ld ProductLd
		err := json.Unmarshal([]byte(GetText(node)), &ld)
		if err != nil {
			// another block on the page may still be the product
			continue
		}
		if ld.Type != "Product" {
			continue
		}
		return ld, nil
	}
	return ProductLd{}, fmt.Errorf("%w: no parseable product block", ErrMalformedJsonLd)
}

// Centavos converts a decimal currency string into integer minor
// units, rounding to the nearest centavo.
func Centavos(s string) (int64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	// ParseFloat accepts "NaN" and "Inf", neither is a price
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: %q", ErrPriceParse, s)
	}
	return int64(math.Round(value * 100)), nil
}

const priceMetaProp = "product:price:amount"

// PriceFromMeta reads the price-bearing meta property and normalizes
// it to centavos. a missing meta means the page declares no price
// (e.g. discontinued) and yields nil rather than an error.
func PriceFromMeta(doc *goquery.Document) (*int64, error) {
	raw, ok := MetaContent(doc, priceMetaProp)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	centavos, err := Centavos(raw)
	if err != nil {
		return nil, err
	}
	return &centavos, nil
}
