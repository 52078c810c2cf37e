// AngelaMos | 2026
// archive_test.go

package archive

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/playerone/storefront/internal/core"
)

// recordingDB captures the single GetContext call Append makes.
type recordingDB struct {
	core.DBTX
	query string
	args  []any
	err   error
}

func (r *recordingDB) GetContext(_ context.Context, dest any, query string, args ...any) error {
	r.query = query
	r.args = args
	if r.err != nil {
		return r.err
	}
	if ts, ok := dest.(*time.Time); ok {
		*ts = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	}
	return nil
}

func strptr(s string) *string { return &s }

func TestAppend(t *testing.T) {
	db := &recordingDB{}
	item := &RemovedItem{
		ResourceType: ResourceProduct,
		ResourceID:   "p-1",
		Name:         "Zelda",
		Reason:       strptr("recalled"),
		RemovedBy:    "a-1",
	}

	if err := Append(context.Background(), db, item); err != nil {
		t.Fatalf("Append: %v", err)
	}

	if item.ID == "" {
		t.Error("id not assigned")
	}
	if item.RemovedAt.IsZero() {
		t.Error("removed_at not populated from RETURNING")
	}
	if !strings.Contains(db.query, "INSERT INTO removed_items") {
		t.Errorf("query = %q", db.query)
	}
	if len(db.args) != 6 || db.args[0] != item.ID || db.args[5] != "a-1" {
		t.Errorf("args = %v", db.args)
	}
}

func TestAppendBlankReasonStoredAsNull(t *testing.T) {
	db := &recordingDB{}
	item := &RemovedItem{
		ResourceType: ResourceUser,
		ResourceID:   "u-1",
		Name:         "Bob",
		Reason:       strptr("   "),
		RemovedBy:    "u-1",
	}

	if err := Append(context.Background(), db, item); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if item.Reason != nil {
		t.Errorf("reason = %q, want nil", *item.Reason)
	}
	if reason, ok := db.args[4].(*string); !ok || reason != nil {
		t.Errorf("reason arg = %#v", db.args[4])
	}
}

func TestAppendRejectsUnknownResourceType(t *testing.T) {
	db := &recordingDB{}
	err := Append(context.Background(), db, &RemovedItem{ResourceType: "order"})

	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if db.query != "" {
		t.Error("nothing should be written for an invalid type")
	}
}

func TestAppendWrapsStorageError(t *testing.T) {
	boom := errors.New("connection reset")
	db := &recordingDB{err: boom}

	err := Append(context.Background(), db, &RemovedItem{ResourceType: ResourceUser})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestListParamsNormalize(t *testing.T) {
	tests := []struct {
		in           ListParams
		page, size   int
		offset       int
	}{
		{ListParams{}, 1, 20, 0},
		{ListParams{Page: 3, PageSize: 10}, 3, 10, 20},
		{ListParams{Page: -2, PageSize: 500}, 1, 100, 0},
	}

	for _, tt := range tests {
		p := tt.in
		p.Normalize()
		if p.Page != tt.page || p.PageSize != tt.size || p.Offset() != tt.offset {
			t.Errorf("Normalize(%+v) = %+v offset %d", tt.in, p, p.Offset())
		}
	}
}

func TestToResponseList(t *testing.T) {
	at := time.Now()
	items := []RemovedItem{
		{ID: "1", ResourceType: ResourceProduct, Name: "Zelda", Reason: strptr("recalled"), RemovedAt: at},
		{ID: "2", ResourceType: ResourceUser, Name: "Bob", RemovedAt: at},
	}

	got := ToResponseList(items)
	want := []RemovedItemResponse{
		{ID: "1", ResourceType: ResourceProduct, Name: "Zelda", Reason: "recalled", RemovedAt: at},
		{ID: "2", ResourceType: ResourceUser, Name: "Bob", RemovedAt: at},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToResponseList = %+v", got)
	}

	if empty := ToResponseList(nil); empty == nil || len(empty) != 0 {
		t.Errorf("nil input = %#v, want empty slice", empty)
	}
}

func TestValidResourceType(t *testing.T) {
	for in, want := range map[string]bool{
		"product": true,
		"user":    true,
		"":        false,
		"Product": false,
		"order":   false,
	} {
		if got := ValidResourceType(in); got != want {
			t.Errorf("ValidResourceType(%q) = %v", in, got)
		}
	}
}
