package database

import "testing"

func TestGlobalDB(t *testing.T) {
	db := &DB{}
	SetGlobalDB(db)
	if got := GetGlobalDB(); got != db {
		t.Errorf("GetGlobalDB = %p, want %p", got, db)
	}

	replacement := &DB{}
	SetGlobalDB(replacement)
	if got := GetGlobalDB(); got != replacement {
		t.Error("GetGlobalDB did not return the replacement instance")
	}
}
