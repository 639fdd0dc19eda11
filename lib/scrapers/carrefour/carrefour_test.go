package carrefour

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"preciazo-backend/lib/htmlutil"
	"preciazo-backend/lib/precio"

	"github.com/stretchr/testify/require"
)

const productUrl = "https://www.carrefour.com.ar/leche-entera-la-serenisima-1-l/p"

func page(availability string) []byte {
	return []byte(fmt.Sprintf(`<html><head>
		<meta property="product:retailer_item_id" content="7790315" />
		<meta property="product:price:amount" content="1550.00" />
		<meta property="og:title" content="Leche entera La Serenisima 1 L" />
		<script type="application/ld+json">
			{"@type":"Product","offers":{"@type":"Offer","price":1550,"availability":%q}}
		</script>
	</head></html>`, availability))
}

func TestParse(t *testing.T) {
	doc, err := htmlutil.Document(page("https://schema.org/InStock"))
	require.NoError(t, err)

	point, err := Parse(context.Background(), productUrl, doc)
	require.NoError(t, err)
	require.Equal(t, "7790315", point.EAN)
	require.Equal(t, int64(155000), *point.PrecioCentavos)
	require.True(t, *point.InStock)
	// json-ld has no name here, og:title is the fallback
	require.Equal(t, "Leche entera La Serenisima 1 L", point.Name)
}

func TestParseSentinelIsSchemeExact(t *testing.T) {
	// the http form is dia's sentinel, not carrefour's
	doc, err := htmlutil.Document(page("http://schema.org/InStock"))
	require.NoError(t, err)

	point, err := Parse(context.Background(), productUrl, doc)
	require.NoError(t, err)
	require.NotNil(t, point.InStock)
	require.False(t, *point.InStock)
}

func TestParseMissingEan(t *testing.T) {
	doc, err := htmlutil.Document([]byte(`<html><head></head></html>`))
	require.NoError(t, err)

	_, err = Parse(context.Background(), productUrl, doc)
	require.True(t, errors.Is(err, precio.ErrMissingEan))
}
