package coto

import (
	"context"
	"fmt"
	"strings"

	"preciazo-backend/lib/htmlutil"
	"preciazo-backend/lib/precio"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/coto")

const ParserVersion = 4

// coto has no retailer_item_id meta, everything hangs off the
// json-ld product block: ean via gtin13, price and stock via the
// first offer. the availability value drifts between the long
// schema.org urls and the bare "InStock" form.
func Parse(ctx context.Context, url string, doc *goquery.Document) (precio.Point, error) {
	ctx, span := tracer.Start(ctx, "coto:Parse")
	defer span.End()

	ld, err := htmlutil.ProductJsonLd(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad product json-ld")
		return precio.Point{}, err
	}

	ean := strings.TrimSpace(ld.Gtin13)
	if ean == "" {
		err := fmt.Errorf("%w: json-ld gtin13", precio.ErrMissingEan)
		span.RecordError(err)
		span.SetStatus(codes.Error, "missing ean")
		return precio.Point{}, err
	}

	var precioCentavos *int64
	var inStock *bool
	offer, ok := ld.FirstOffer()
	if ok {
		if offer.Price != "" {
			centavos, err := htmlutil.Centavos(offer.Price.String())
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "bad offer price")
				return precio.Point{}, err
			}
			precioCentavos = &centavos
		}
		if offer.Availability != "" {
			inStock = precio.Stock(strings.Contains(offer.Availability, "InStock"))
		}
	}

	imageUrl, _ := htmlutil.MetaContent(doc, "og:image")

	return precio.Point{
		EAN:            ean,
		PrecioCentavos: precioCentavos,
		InStock:        inStock,
		URL:            url,
		Name:           htmlutil.CleanText(ld.Name),
		ImageURL:       imageUrl,
		ParserVersion:  ParserVersion,
	}, nil
}
