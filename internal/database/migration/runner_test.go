package migration

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoadMigrations_OrdersAndChecksums(t *testing.T) {
	fsys := fstest.MapFS{
		"V2__add_index.sql":   {Data: []byte("CREATE INDEX x ON jobs (id);\n")},
		"V1__init.sql":        {Data: []byte("  CREATE TABLE jobs (id UUID);  ")},
		"README.md":           {Data: []byte("ignored")},
		"V3__notes.txt":       {Data: []byte("ignored")},
		"nested/V9__skip.sql": {Data: []byte("ignored")},
	}

	migs, err := loadMigrations(fsys)
	if err != nil {
		t.Fatalf("loadMigrations: %v", err)
	}
	if len(migs) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migs))
	}
	if migs[0].Version != 1 || migs[0].Name != "init" || migs[1].Version != 2 {
		t.Fatalf("unexpected order: %+v", migs)
	}
	if migs[0].SQL != "CREATE TABLE jobs (id UUID);" {
		t.Fatalf("sql not trimmed: %q", migs[0].SQL)
	}
	if len(migs[0].Checksum) != 64 || migs[0].Checksum == migs[1].Checksum {
		t.Fatalf("unexpected checksums: %s %s", migs[0].Checksum, migs[1].Checksum)
	}
}

func TestLoadMigrations_Rejects(t *testing.T) {
	cases := map[string]fstest.MapFS{
		"empty file": {"V1__init.sql": {Data: []byte("   ")}},
		"duplicate version": {
			"V1__a.sql":  {Data: []byte("SELECT 1")},
			"V01__b.sql": {Data: []byte("SELECT 2")},
		},
	}
	for name, fsys := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := loadMigrations(fsys); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestEmbeddedSchema(t *testing.T) {
	src, err := Runner{}.source()
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	migs, err := loadMigrations(src)
	if err != nil {
		t.Fatalf("loadMigrations: %v", err)
	}
	if len(migs) == 0 {
		t.Fatalf("no embedded migrations")
	}
	for _, table := range []string{"jobs", "candidate_profiles", "cv_documents", "applications"} {
		if !strings.Contains(migs[0].SQL, "CREATE TABLE IF NOT EXISTS "+table+" (") {
			t.Fatalf("schema is missing table %s", table)
		}
	}
}
