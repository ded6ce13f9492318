package repositories

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestKVRepositoryEnsureTableSkipsExisting(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("information_schema\\.tables").WithArgs("client_storage").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("client_storage"))

	if err := (KVRepository{DB: db}).EnsureTable(); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestKVRepositoryEnsureTableCreatesMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("information_schema\\.tables").WithArgs("client_storage").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS client_storage").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := (KVRepository{DB: db}).EnsureTable(); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestKVRepositoryLoadSaveClear(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := KVRepository{DB: db, Scope: "device-1"}

	mock.ExpectQuery("SELECT v FROM client_storage").WithArgs("device-1", "token").
		WillReturnRows(sqlmock.NewRows([]string{"v"}))
	mock.ExpectExec("INSERT INTO client_storage").WithArgs("device-1", "token", "abc").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT v FROM client_storage").WithArgs("device-1", "token").
		WillReturnRows(sqlmock.NewRows([]string{"v"}).AddRow("abc"))
	mock.ExpectExec("DELETE FROM client_storage").WithArgs("device-1", "token", "user", "rememberMe").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if _, ok, err := repo.Load("token"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := repo.Save("token", "abc"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	v, ok, err := repo.Load("token")
	if err != nil || !ok || v != "abc" {
		t.Fatalf("Load got %q ok=%v err=%v", v, ok, err)
	}
	if err := repo.Clear("token", "user", "rememberMe"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestKVRepositoryClearNoKeys(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	if err := (KVRepository{DB: db}).Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected queries: %v", err)
	}
}
