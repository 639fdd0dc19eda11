package scrapers

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"preciazo-backend/lib/htmlutil"
	"preciazo-backend/lib/precio"
	"preciazo-backend/lib/scrapers/carrefour"
	"preciazo-backend/lib/scrapers/coto"
	"preciazo-backend/lib/scrapers/dia"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers")

var ErrUnknownHost = errors.New("no scraper registered for host")

// every retailer scraper converges on this one signature, which is
// what keeps the store and query side untouched when a new retailer
// is added.
type ParseFunc func(ctx context.Context, url string, doc *goquery.Document) (precio.Point, error)

var byHost = map[string]ParseFunc{
	"www.carrefour.com.ar":              carrefour.Parse,
	"diaonline.supermercadosdia.com.ar": dia.Parse,
	"www.cotodigital3.com.ar":           coto.Parse,
}

func Lookup(host string) (ParseFunc, bool) {
	parse, ok := byHost[host]
	return parse, ok
}

func Hosts() []string {
	hosts := make([]string, 0, len(byHost))
	for h := range byHost {
		hosts = append(hosts, h)
	}
	return hosts
}

// ParsePage dispatches one fetched page to its retailer's scraper by
// the source url's host and returns the canonical observation. all
// extraction errors are local to this one page.
func ParsePage(ctx context.Context, rawUrl string, body []byte) (precio.Point, error) {
	ctx, span := tracer.Start(ctx, "ParsePage")
	defer span.End()
	span.SetAttributes(attribute.String("url", rawUrl))

	link, err := url.Parse(rawUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad url")
		return precio.Point{}, err
	}

	parse, ok := Lookup(link.Host)
	if !ok {
		err := fmt.Errorf("%w: %s", ErrUnknownHost, link.Host)
		span.RecordError(err)
		span.SetStatus(codes.Error, "unknown host")
		return precio.Point{}, err
	}

	doc, err := htmlutil.Document(body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return precio.Point{}, err
	}

	return parse(ctx, rawUrl, doc)
}
