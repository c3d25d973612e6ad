package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/normalize"
)

// absentPlaceholder is the legacy marker some exports use for "no value" in
// optional link columns.
const absentPlaceholder = "unknown"

// Record is one decoded row ready to be written.
type Record interface {
	// Key is the natural key used to shard rows across workers.
	Key() string
	// Statement returns the upsert query and its parameters. The query
	// returns a single boolean column named created.
	Statement(batch string) (string, map[string]any)
}

type CallRecord struct {
	FromPhone string
	ToPhone   string
	CallID    string
	Duration  int64
	Timestamp string
	CallType  string
}

type TransactionRecord struct {
	FromAccount     string
	ToAccount       string
	TransactionID   string
	Amount          float64
	Timestamp       string
	TransactionType string
}

type DeviceRecord struct {
	DeviceID    string
	IPAddress   string
	PhoneNumber *string
	DeviceType  *string
	IMEI        *string
	Timestamp   string
}

type SIMRecord struct {
	SIMNumber      string
	PhoneNumber    *string
	Provider       *string
	ActivationDate *string
}

type ComplaintRecord struct {
	ComplaintID   string
	PersonID      *string
	ComplaintType string
	Description   *string
	Timestamp     string
	Severity      string
}

func (r CallRecord) Key() string        { return r.CallID }
func (r TransactionRecord) Key() string { return r.TransactionID }
func (r DeviceRecord) Key() string      { return r.DeviceID }
func (r SIMRecord) Key() string         { return r.SIMNumber }
func (r ComplaintRecord) Key() string   { return r.ComplaintID }

// Decode validates a row and applies the per-kind defaults. now stands in for
// missing timestamps.
func Decode(kind Kind, row Row, now time.Time) (Record, error) {
	switch kind {
	case KindCalls:
		return decodeCall(row, now)
	case KindTransactions:
		return decodeTransaction(row, now)
	case KindDevices:
		return decodeDevice(row, now)
	case KindSIMs:
		return decodeSIM(row, now)
	case KindComplaints:
		return decodeComplaint(row, now)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(kind))
	}
}

func decodeCall(row Row, now time.Time) (Record, error) {
	from, to, err := required2(row, "from_phone", "to_phone")
	if err != nil {
		return nil, err
	}
	duration, err := parseInt(row, "duration_seconds")
	if err != nil {
		return nil, err
	}
	ts, err := parseTimestamp(row, "timestamp", now)
	if err != nil {
		return nil, err
	}
	return CallRecord{
		FromPhone: normalize.Phone(from),
		ToPhone:   normalize.Phone(to),
		CallID:    withDefault(row.Value("call_id"), fmt.Sprintf("call_%d", row.Index)),
		Duration:  duration,
		Timestamp: ts,
		CallType:  withDefault(row.Value("call_type"), "outgoing"),
	}, nil
}

func decodeTransaction(row Row, now time.Time) (Record, error) {
	from, to, err := required2(row, "from_account", "to_account")
	if err != nil {
		return nil, err
	}
	var amount float64
	if raw := row.Value("amount"); raw != "" {
		amount, err = strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
			return nil, fmt.Errorf("%w: amount %q", ErrInvalidValue, raw)
		}
	}
	ts, err := parseTimestamp(row, "timestamp", now)
	if err != nil {
		return nil, err
	}
	return TransactionRecord{
		FromAccount:     normalize.Account(from),
		ToAccount:       normalize.Account(to),
		TransactionID:   withDefault(row.Value("transaction_id"), fmt.Sprintf("txn_%d", row.Index)),
		Amount:          amount,
		Timestamp:       ts,
		TransactionType: withDefault(row.Value("transaction_type"), "transfer"),
	}, nil
}

func decodeDevice(row Row, now time.Time) (Record, error) {
	device, ip, err := required2(row, "device_id", "ip_address")
	if err != nil {
		return nil, err
	}
	ts, err := parseTimestamp(row, "timestamp", now)
	if err != nil {
		return nil, err
	}
	return DeviceRecord{
		DeviceID:    normalize.DeviceID(device),
		IPAddress:   normalize.IP(ip),
		PhoneNumber: optionalPhone(row),
		DeviceType:  row.Optional("device_type"),
		IMEI:        row.Optional("imei"),
		Timestamp:   ts,
	}, nil
}

func decodeSIM(row Row, now time.Time) (Record, error) {
	sim := row.Value("sim_number")
	if sim == "" {
		return nil, fmt.Errorf("%w: sim_number", ErrMissingValue)
	}
	rec := SIMRecord{
		SIMNumber:   sim,
		PhoneNumber: optionalPhone(row),
		Provider:    row.Optional("provider"),
	}
	if row.Value("activation_date") != "" {
		ts, err := parseTimestamp(row, "activation_date", now)
		if err != nil {
			return nil, err
		}
		rec.ActivationDate = &ts
	}
	return rec, nil
}

func decodeComplaint(row Row, now time.Time) (Record, error) {
	ts, err := parseTimestamp(row, "timestamp", now)
	if err != nil {
		return nil, err
	}
	rec := ComplaintRecord{
		ComplaintID:   withDefault(row.Value("complaint_id"), fmt.Sprintf("complaint_%d", row.Index)),
		ComplaintType: withDefault(row.Value("complaint_type"), "fraud"),
		Description:   row.Optional("description"),
		Timestamp:     ts,
		Severity:      withDefault(row.Value("severity"), "medium"),
	}
	if p := row.Optional("person_id"); p != nil && !strings.EqualFold(*p, absentPlaceholder) {
		rec.PersonID = p
	}
	return rec, nil
}

func required2(row Row, a, b string) (string, string, error) {
	va, vb := row.Value(a), row.Value(b)
	switch {
	case va == "":
		return "", "", fmt.Errorf("%w: %s", ErrMissingValue, a)
	case vb == "":
		return "", "", fmt.Errorf("%w: %s", ErrMissingValue, b)
	}
	return va, vb, nil
}

func optionalPhone(row Row) *string {
	p := row.Optional("phone_number")
	if p == nil || strings.EqualFold(*p, absentPlaceholder) {
		return nil
	}
	n := normalize.Phone(*p)
	return &n
}

func parseInt(row Row, name string) (int64, error) {
	raw := row.Value(name)
	if raw == "" {
		return 0, nil
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v, nil
	}
	// Spreadsheet exports often write whole numbers as "42.0".
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidValue, name, raw)
	}
	return int64(f), nil
}

func parseTimestamp(row Row, name string, now time.Time) (string, error) {
	raw := row.Value(name)
	if raw == "" {
		return now.UTC().Format(time.RFC3339), nil
	}
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return "", fmt.Errorf("%w: %s %q: %v", ErrInvalidValue, name, raw, err)
	}
	return t.UTC().Format(time.RFC3339), nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
