package ingest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	database_mocks "github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/database/mocks"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func createdRecord(created bool) []*neo4j.Record {
	return []*neo4j.Record{{Keys: []string{"created"}, Values: []any{created}}}
}

func newTestPipeline(t *testing.T, workers int) (*Pipeline, *database_mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	db := database_mocks.NewMockService(ctrl)
	p := NewPipeline(db, workers)
	p.now = func() time.Time { return fixedNow }
	return p, db
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Calls ")
	require.NoError(t, err)
	assert.Equal(t, KindCalls, k)

	_, err = ParseKind("emails")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestReadTable(t *testing.T) {
	t.Run("header is case-insensitive and short rows are tolerated", func(t *testing.T) {
		src := "From_Phone,TO_PHONE,call_id\n9876543210,9123456789\n"
		table, err := ReadTable(strings.NewReader(src), KindCalls.RequiredColumns())
		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "9123456789", table.Rows[0].Value("to_phone"))
		assert.Nil(t, table.Rows[0].Optional("call_id"))
	})

	t.Run("missing required column is fatal", func(t *testing.T) {
		_, err := ReadTable(strings.NewReader("from_phone\n9876543210\n"), KindCalls.RequiredColumns())
		assert.ErrorIs(t, err, ErrMissingColumns)
		assert.ErrorContains(t, err, "to_phone")
	})

	t.Run("empty source", func(t *testing.T) {
		_, err := ReadTable(strings.NewReader(""), nil)
		assert.ErrorIs(t, err, ErrMissingColumns)
	})
}

func TestDecodeDefaults(t *testing.T) {
	tests := []struct {
		name   string
		kind   Kind
		fields map[string]string
		want   Record
	}{
		{
			name:   "call",
			kind:   KindCalls,
			fields: map[string]string{"from_phone": "98765 43210", "to_phone": "+91-91234-56789"},
			want: CallRecord{
				FromPhone: "+919876543210", ToPhone: "+919123456789", CallID: "call_3",
				Timestamp: "2024-03-01T12:00:00Z", CallType: "outgoing",
			},
		},
		{
			name:   "transaction",
			kind:   KindTransactions,
			fields: map[string]string{"from_account": " acc001 ", "to_account": "acc002", "amount": "1500.5", "timestamp": "2024-01-15 10:30:00"},
			want: TransactionRecord{
				FromAccount: "ACC001", ToAccount: "ACC002", TransactionID: "txn_3", Amount: 1500.5,
				Timestamp: "2024-01-15T10:30:00Z", TransactionType: "transfer",
			},
		},
		{
			name:   "complaint",
			kind:   KindComplaints,
			fields: map[string]string{"person_id": "unknown"},
			want: ComplaintRecord{
				ComplaintID: "complaint_3", ComplaintType: "fraud",
				Timestamp: "2024-03-01T12:00:00Z", Severity: "medium",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, err := Decode(tc.kind, NewRow(3, tc.fields), fixedNow)
			require.NoError(t, err)
			assert.Equal(t, tc.want, rec)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(KindCalls, NewRow(0, map[string]string{"from_phone": "9876543210"}), fixedNow)
	assert.ErrorIs(t, err, ErrMissingValue)

	_, err = Decode(KindCalls, NewRow(0, map[string]string{"from_phone": "1", "to_phone": "2", "duration_seconds": "long"}), fixedNow)
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = Decode(KindTransactions, NewRow(0, map[string]string{"from_account": "A", "to_account": "B", "timestamp": "not a date"}), fixedNow)
	assert.ErrorIs(t, err, ErrInvalidValue)

	for _, raw := range []string{"NaN", "Inf", "-inf", "1e300"} {
		_, err = Decode(KindCalls, NewRow(0, map[string]string{"from_phone": "1", "to_phone": "2", "duration_seconds": raw}), fixedNow)
		assert.ErrorIs(t, err, ErrInvalidValue, raw)
	}
	for _, raw := range []string{"NaN", "+Inf", "-Infinity"} {
		_, err = Decode(KindTransactions, NewRow(0, map[string]string{"from_account": "A", "to_account": "B", "amount": raw}), fixedNow)
		assert.ErrorIs(t, err, ErrInvalidValue, raw)
	}

	rec, err := Decode(KindCalls, NewRow(0, map[string]string{"from_phone": "1", "to_phone": "2", "duration_seconds": "42.0"}), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, int64(42), rec.(CallRecord).Duration)
}

func TestOptionalLinks(t *testing.T) {
	t.Run("device without phone creates no Phone", func(t *testing.T) {
		for _, phone := range []string{"", "unknown", "UNKNOWN"} {
			rec, err := Decode(KindDevices, NewRow(0, map[string]string{"device_id": "d1", "ip_address": "10.0.0.1", "phone_number": phone}), fixedNow)
			require.NoError(t, err)
			q, params := rec.Statement("b")
			assert.NotContains(t, q, ":Phone")
			assert.NotContains(t, params, "phone_number")
			assert.Nil(t, params["device_type"])
		}
	})

	t.Run("device with phone links RUNS_ON", func(t *testing.T) {
		rec, err := Decode(KindDevices, NewRow(0, map[string]string{"device_id": "d1", "ip_address": " 10.0.0.1 ", "phone_number": "9876543210"}), fixedNow)
		require.NoError(t, err)
		q, params := rec.Statement("b")
		assert.Contains(t, q, "MERGE (p)-[o:RUNS_ON]->(d)")
		assert.Equal(t, "+919876543210", params["phone_number"])
		assert.Equal(t, "D1", params["device_id"])
		assert.Equal(t, "10.0.0.1", params["ip_address"])
	})

	t.Run("sim links HAS_SIM only with a phone", func(t *testing.T) {
		rec, err := Decode(KindSIMs, NewRow(0, map[string]string{"sim_number": " 8991 "}), fixedNow)
		require.NoError(t, err)
		q, params := rec.Statement("b")
		assert.NotContains(t, q, "HAS_SIM")
		assert.Equal(t, "8991", params["sim_number"])

		rec, err = Decode(KindSIMs, NewRow(0, map[string]string{"sim_number": "8991", "phone_number": "9876543210"}), fixedNow)
		require.NoError(t, err)
		q, _ = rec.Statement("b")
		assert.Contains(t, q, "MERGE (p)-[h:HAS_SIM]->(s)")
	})

	t.Run("complaint person link", func(t *testing.T) {
		rec, err := Decode(KindComplaints, NewRow(0, map[string]string{"person_id": "P-7"}), fixedNow)
		require.NoError(t, err)
		q, params := rec.Statement("b")
		assert.Contains(t, q, "MERGE (p)-[:INVOLVED_IN]->(c)")
		assert.Equal(t, "P-7", params["person_id"])
	})
}

func TestCallStatementMergesOnKeyOnly(t *testing.T) {
	rec := CallRecord{FromPhone: "+911", ToPhone: "+912", CallID: "c1", Duration: 10, Timestamp: "t", CallType: "outgoing"}
	q, params := rec.Statement("batch-1")
	assert.Contains(t, q, "MERGE (p1)-[c:MADE {call_id: $call_id}]->(p2)")
	assert.Contains(t, q, "SET c.duration = $duration")
	assert.Contains(t, q, "RETURN created")
	assert.Equal(t, "batch-1", params["batch"])
}

func TestPipelinePartialFailure(t *testing.T) {
	p, db := newTestPipeline(t, 3)

	var b strings.Builder
	b.WriteString("from_phone,to_phone,call_id,duration_seconds\n")
	for i := 0; i < 9; i++ {
		b.WriteString("9876543210,9123456789,c")
		b.WriteByte(byte('0' + i))
		b.WriteString(",30\n")
	}
	b.WriteString("9876543210,,c9,30\n")

	db.EXPECT().
		ExecuteWriteQuery(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(createdRecord(true), nil).
		Times(9)

	res, err := p.Ingest(context.Background(), KindCalls, strings.NewReader(b.String()))
	require.NoError(t, err)
	assert.Equal(t, 10, res.Rows)
	assert.Equal(t, 9, res.Inserted)
	assert.Equal(t, 0, res.Updated)
	assert.Equal(t, 1, res.Errors)
	assert.NotEmpty(t, res.BatchID)
}

func TestPipelineRepeatedCallIsUpdate(t *testing.T) {
	p, db := newTestPipeline(t, 2)
	src := "from_phone,to_phone,call_id\n9876543210,9123456789,dup\n9876543210,9123456789,dup\n"

	var mu sync.Mutex
	seen := map[string]bool{}
	db.EXPECT().
		ExecuteWriteQuery(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, params map[string]any) ([]*neo4j.Record, error) {
			mu.Lock()
			defer mu.Unlock()
			id := params["call_id"].(string)
			created := !seen[id]
			seen[id] = true
			return createdRecord(created), nil
		}).
		Times(2)

	res, err := p.Ingest(context.Background(), KindCalls, strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, res.Updated)
}

func TestPipelineUpsertFailureIsRowError(t *testing.T) {
	p, db := newTestPipeline(t, 1)
	src := "from_account,to_account,transaction_id,amount\nA,B,t1,10\nA,C,t2,20\n"

	gomock.InOrder(
		db.EXPECT().ExecuteWriteQuery(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("deadlock")),
		db.EXPECT().ExecuteWriteQuery(gomock.Any(), gomock.Any(), gomock.Any()).Return(createdRecord(false), nil),
	)

	res, err := p.Ingest(context.Background(), KindTransactions, strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Errors)
	assert.Equal(t, 1, res.Updated)
}

func TestPipelineFatalErrors(t *testing.T) {
	p, _ := newTestPipeline(t, 1)

	_, err := p.Ingest(context.Background(), KindDevices, strings.NewReader("device_id\nd1\n"))
	assert.ErrorIs(t, err, ErrMissingColumns)

	_, err = p.Ingest(context.Background(), Kind("emails"), strings.NewReader("a\n1\n"))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestPipelineCancelled(t *testing.T) {
	p, _ := newTestPipeline(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Ingest(ctx, KindSIMs, strings.NewReader("sim_number\n8991\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEnsureSchema(t *testing.T) {
	ctrl := gomock.NewController(t)
	db := database_mocks.NewMockService(ctrl)

	db.EXPECT().
		ExecuteWriteQuery(gomock.Any(), gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, stmt string, _ map[string]any) ([]*neo4j.Record, error) {
			if strings.Contains(stmt, "()-[r:") {
				return nil, errors.New("unsupported")
			}
			return nil, nil
		}).
		Times(len(SchemaStatements))

	assert.Equal(t, len(SchemaStatements)-2, EnsureSchema(context.Background(), db))
}
