package dbmetrics

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// QueryObserver принимает длительность запросов
type QueryObserver interface {
	ObserveQuery(operation string, duration time.Duration, err error)
}

// DB обертка над *sql.DB, которая замеряет длительность запросов
type DB struct {
	db       *sql.DB
	observer QueryObserver
}

func NewDB(db *sql.DB, observer QueryObserver) *DB {
	return &DB{db: db, observer: observer}
}

// Unwrap возвращает исходное соединение
func (d *DB) Unwrap() *sql.DB {
	return d.db
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	started := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	d.observe(query, started, err)
	return res, err
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	started := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.observe(query, started, err)
	return rows, err
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	started := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.observe(query, started, row.Err())
	return row
}

// BeginTx открывает транзакцию, запросы которой тоже замеряются
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &tracedTx{Tx: tx, parent: d}, nil
}

func (d *DB) observe(query string, started time.Time, err error) {
	if d.observer == nil {
		return
	}
	d.observer.ObserveQuery(operationOf(query), time.Since(started), err)
}

type tracedTx struct {
	*sql.Tx
	parent *DB
}

func (t *tracedTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	started := time.Now()
	res, err := t.Tx.ExecContext(ctx, query, args...)
	t.parent.observe(query, started, err)
	return res, err
}

func (t *tracedTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	started := time.Now()
	rows, err := t.Tx.QueryContext(ctx, query, args...)
	t.parent.observe(query, started, err)
	return rows, err
}

func (t *tracedTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	started := time.Now()
	row := t.Tx.QueryRowContext(ctx, query, args...)
	t.parent.observe(query, started, row.Err())
	return row
}

// operationOf берет первое слово запроса: SELECT, INSERT, UPDATE ...
func operationOf(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}

// QueryMetrics prometheus-реализация QueryObserver
type QueryMetrics struct {
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
}

func NewQueryMetrics(serviceName string, reg prometheus.Registerer) *QueryMetrics {
	m := &QueryMetrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Duration of SQL queries by operation.",
			ConstLabels: prometheus.Labels{"service": serviceName},
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "SQL queries that returned an error.",
			ConstLabels: prometheus.Labels{"service": serviceName},
		}, []string{"operation"}),
	}
	if reg != nil {
		reg.MustRegister(m.duration, m.errors)
	}
	return m
}

func (m *QueryMetrics) ObserveQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil && err != sql.ErrNoRows {
		m.errors.WithLabelValues(operation).Inc()
	}
}
