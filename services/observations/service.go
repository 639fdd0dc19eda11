package observations

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"preciazo-backend/lib/precio"
	"preciazo-backend/services/observations/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/observations")

// the product has no observation history. this is an expected branch
// of the query contract, not a fault, the http boundary maps it to 404.
var ErrNotFound = errors.New("product was never observed")

type Service struct {
	db  *sql.DB
	qry *db.Queries
}

func NewService(database *sql.DB) Service {
	return Service{
		db:  database,
		qry: db.New(database),
	}
}

type Observation struct {
	ID             int64
	EAN            string
	FetchedAt      time.Time
	PrecioCentavos *int64
	InStock        *bool
	URL            string
	Name           string
	ImageURL       string
	ParserVersion  uint16
}

func fromRow(r db.Precio) Observation {
	o := Observation{
		ID:        r.ID,
		EAN:       r.Ean,
		FetchedAt: time.Unix(r.FetchedAt, 0),
		URL:       r.Url.String,
		Name:      r.Name.String,
		ImageURL:  r.ImageUrl.String,
	}
	if r.PrecioCentavos.Valid {
		o.PrecioCentavos = &r.PrecioCentavos.Int64
	}
	if r.InStock.Valid {
		o.InStock = &r.InStock.Bool
	}
	if r.ParserVersion.Valid {
		o.ParserVersion = uint16(r.ParserVersion.Int64)
	}
	return o
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Append normalizes one extractor output and inserts it as an
// immutable row. there is no update or delete path, history only
// ever grows.
func (s Service) Append(ctx context.Context, point precio.Point, fetchedAt time.Time) error {
	ctx, span := tracer.Start(ctx, "Append")
	defer span.End()
	span.SetAttributes(attribute.String("ean", point.EAN))

	point, err := precio.Normalize(point, fetchedAt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	params := db.CreatePrecioParams{
		Ean:           point.EAN,
		FetchedAt:     point.FetchedAt.Unix(),
		Url:           nullString(point.URL),
		Name:          nullString(point.Name),
		ImageUrl:      nullString(point.ImageURL),
		ParserVersion: sql.NullInt64{Int64: int64(point.ParserVersion), Valid: true},
	}
	if point.PrecioCentavos != nil {
		params.PrecioCentavos = sql.NullInt64{Int64: *point.PrecioCentavos, Valid: true}
	}
	if point.InStock != nil {
		params.InStock = sql.NullBool{Bool: *point.InStock, Valid: true}
	}

	err = s.qry.CreatePrecio(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// History returns every observation for the ean, earliest first,
// ordered by (fetched_at, id). an unknown ean is an empty slice,
// never an error, callers decide whether that means not-found.
func (s Service) History(ctx context.Context, ean string) ([]Observation, error) {
	ctx, span := tracer.Start(ctx, "History")
	defer span.End()
	span.SetAttributes(attribute.String("ean", ean))

	rows, err := s.qry.GetPreciosByEan(ctx, ean)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	history := make([]Observation, len(rows))
	for i, r := range rows {
		history[i] = fromRow(r)
	}
	return history, nil
}

// LatestMetadata returns the most recent observation carrying a
// non-empty name, skipping later rows whose name is absent.
func (s Service) LatestMetadata(ctx context.Context, ean string) (Observation, bool, error) {
	ctx, span := tracer.Start(ctx, "LatestMetadata")
	defer span.End()
	span.SetAttributes(attribute.String("ean", ean))

	row, err := s.qry.GetLatestMetadata(ctx, ean)
	if errors.Is(err, sql.ErrNoRows) {
		return Observation{}, false, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Observation{}, false, err
	}
	return fromRow(row), true, nil
}

// ApproximateCount reads the autoincrement counter instead of
// scanning the table. rows are never deleted so the counter only
// drifts by rollbacks, which is fine for a display figure.
func (s Service) ApproximateCount(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "ApproximateCount")
	defer span.End()

	var count int64
	err := s.db.QueryRowContext(
		ctx,
		`SELECT seq FROM sqlite_sequence WHERE name = 'precios'`,
	).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		// nothing was ever inserted
		return 0, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	return count, nil
}
