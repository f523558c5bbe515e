package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	json "github.com/goccy/go-json"
)

func TestLoadFromDBMapsRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	rows := sqlmock.NewRows([]string{"id", "level", "style", "stiffness", "price", "attrs"}).
		AddRow("yy-nf-700", "进阶", "进攻型", "中硬", 520, []byte(`{"brand":"Yonex","price":1}`)).
		AddRow("plain", "初学", "全能型", "软", 199, nil)
	mock.ExpectQuery("SELECT id, level, style, stiffness, price, attrs FROM rackets").WillReturnRows(rows)

	cat, err := LoadFromDB(context.Background(), db)
	if err != nil {
		t.Fatalf("LoadFromDB: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("expected 2 rackets, got %d", cat.Len())
	}
	first := cat.Items()[0]
	if first.ID() != "yy-nf-700" || first.Price != 520 || first.Level != "进阶" {
		t.Fatalf("unexpected first racket: %+v", first)
	}
	out, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["brand"] != "Yonex" {
		t.Fatalf("expected brand pass-through, got %v", decoded["brand"])
	}
	if decoded["price"] != float64(520) {
		t.Fatalf("column price must win over attrs price, got %v", decoded["price"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestLoadFromDBRejectsNegativePrice(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	rows := sqlmock.NewRows([]string{"id", "level", "style", "stiffness", "price", "attrs"}).
		AddRow("bad", "进阶", "进攻型", "中硬", -5, []byte(`{}`))
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	if _, err := LoadFromDB(context.Background(), db); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestLoadFromDBQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("relation \"rackets\" does not exist"))
	if _, err := LoadFromDB(context.Background(), db); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoadFromDBTreatsNullAttrsAsEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	rows := sqlmock.NewRows([]string{"id", "level", "style", "stiffness", "price", "attrs"}).
		AddRow("null-attrs", "进阶", "进攻型", "中硬", 300, []byte("null"))
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	cat, err := LoadFromDB(context.Background(), db)
	if err != nil {
		t.Fatalf("LoadFromDB: %v", err)
	}
	if cat.Len() != 1 || cat.Items()[0].ID() != "null-attrs" {
		t.Fatalf("unexpected catalog: %+v", cat.Items())
	}
}

func TestLoadFromDBRejectsNonObjectAttrs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	rows := sqlmock.NewRows([]string{"id", "level", "style", "stiffness", "price", "attrs"}).
		AddRow("array-attrs", "进阶", "进攻型", "中硬", 300, []byte(`["x"]`))
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	if _, err := LoadFromDB(context.Background(), db); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestLoadFromDBKeepsInsertionOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	rows := sqlmock.NewRows([]string{"id", "level", "style", "stiffness", "price", "attrs"}).
		AddRow("zz-first", "进阶", "进攻型", "中硬", 500, []byte(`{}`)).
		AddRow("aa-second", "进阶", "进攻型", "中硬", 500, []byte(`{}`))
	mock.ExpectQuery(`ORDER BY created_at, id`).WillReturnRows(rows)

	cat, err := LoadFromDB(context.Background(), db)
	if err != nil {
		t.Fatalf("LoadFromDB: %v", err)
	}
	items := cat.Items()
	if items[0].ID() != "zz-first" || items[1].ID() != "aa-second" {
		t.Fatalf("expected row order preserved, got %s, %s", items[0].ID(), items[1].ID())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
