package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestEmbeddingCacheGetMissIsNotAnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()
	cache := &EmbeddingCache{db: db}

	mock.ExpectQuery("SELECT vector FROM embedding_cache").
		WithArgs(hashText("unseen text")).
		WillReturnError(sql.ErrNoRows)

	vector, ok, err := cache.Get(context.Background(), "unseen text")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok || vector != nil {
		t.Fatalf("expected miss, got ok=%v vector=%v", ok, vector)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestEmbeddingCacheRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()
	cache := &EmbeddingCache{db: db}

	key := hashText("some span text")
	mock.ExpectExec("INSERT INTO embedding_cache").
		WithArgs(key, []byte(`[0.5,0.25]`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT vector FROM embedding_cache").
		WithArgs(key).
		WillReturnRows(sqlmock.NewRows([]string{"vector"}).AddRow([]byte(`[0.5,0.25]`)))

	if err := cache.Put(context.Background(), "some span text", []float32{0.5, 0.25}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	vector, ok, err := cache.Get(context.Background(), "some span text")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok || len(vector) != 2 || vector[0] != 0.5 {
		t.Fatalf("unexpected cached vector: ok=%v %v", ok, vector)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
