package carrefour

import (
	"context"
	"fmt"

	"preciazo-backend/lib/htmlutil"
	"preciazo-backend/lib/precio"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/carrefour")

const ParserVersion = 6

const eanMetaProp = "product:retailer_item_id"

// same vtex storefront family as dia, but carrefour emits the
// https form of the availability sentinel
const inStockSentinel = "https://schema.org/InStock"

func Parse(ctx context.Context, url string, doc *goquery.Document) (precio.Point, error) {
	ctx, span := tracer.Start(ctx, "carrefour:Parse")
	defer span.End()

	ean, ok := htmlutil.MetaContent(doc, eanMetaProp)
	if !ok || ean == "" {
		err := fmt.Errorf("%w: meta %s", precio.ErrMissingEan, eanMetaProp)
		span.RecordError(err)
		span.SetStatus(codes.Error, "missing ean")
		return precio.Point{}, err
	}

	precioCentavos, err := htmlutil.PriceFromMeta(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad price meta")
		return precio.Point{}, err
	}

	ld, err := htmlutil.ProductJsonLd(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad product json-ld")
		return precio.Point{}, err
	}

	var inStock *bool
	offer, ok := ld.FirstOffer()
	if ok && offer.Availability != "" {
		inStock = precio.Stock(offer.Availability == inStockSentinel)
	}

	name := ld.Name
	if name == "" {
		name, _ = htmlutil.MetaContent(doc, "og:title")
	}
	imageUrl, _ := htmlutil.MetaContent(doc, "og:image")

	return precio.Point{
		EAN:            ean,
		PrecioCentavos: precioCentavos,
		InStock:        inStock,
		URL:            url,
		Name:           htmlutil.CleanText(name),
		ImageURL:       imageUrl,
		ParserVersion:  ParserVersion,
	}, nil
}
