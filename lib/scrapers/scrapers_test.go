package scrapers

import (
	"context"
	"errors"
	"testing"

	"preciazo-backend/lib/precio"
	"preciazo-backend/lib/scrapers/dia"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const diaFixture = `<html><head>
	<meta property="product:retailer_item_id" content="7790001" />
	<meta property="product:price:amount" content="199.90" />
	<script type="application/ld+json">
		{"@type":"Product","name":"Yerba Mate Taragui 500 Gr.","offers":{"availability":"http://schema.org/InStock"}}
	</script>
</head></html>`

func TestParsePageDispatch(t *testing.T) {
	url := "https://diaonline.supermercadosdia.com.ar/yerba-mate-taragui-500-gr-35/p"

	point, err := ParsePage(context.Background(), url, []byte(diaFixture))
	require.NoError(t, err)

	expect := precio.Point{
		EAN:            "7790001",
		PrecioCentavos: precio.Centavos(19990),
		InStock:        precio.Stock(true),
		URL:            url,
		Name:           "Yerba Mate Taragui 500 Gr.",
		ParserVersion:  dia.ParserVersion,
	}
	if diff := cmp.Diff(expect, point); diff != "" {
		t.Fatalf("point mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePageUnknownHost(t *testing.T) {
	_, err := ParsePage(context.Background(), "https://www.jumbo.com.ar/algo/p", []byte(diaFixture))
	require.True(t, errors.Is(err, ErrUnknownHost))
}

func TestLookup(t *testing.T) {
	for _, host := range []string{
		"www.carrefour.com.ar",
		"diaonline.supermercadosdia.com.ar",
		"www.cotodigital3.com.ar",
	} {
		_, ok := Lookup(host)
		require.True(t, ok, host)
	}
	_, ok := Lookup("example.com")
	require.False(t, ok)

	require.Len(t, Hosts(), 3)
}
