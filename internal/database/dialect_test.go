package database

import "testing"

func TestSQLiteDialect(t *testing.T) {
	d := NewSQLiteDialect()

	t.Run("DriverName", func(t *testing.T) {
		if got := d.DriverName(); got != "sqlite3" {
			t.Errorf("DriverName() = %q, want sqlite3", got)
		}
	})

	t.Run("DSN", func(t *testing.T) {
		if got := d.DSN(DialectConfig{Path: "./careconnect.db"}); got != "./careconnect.db" {
			t.Errorf("DSN() = %q, want ./careconnect.db", got)
		}
	})

	t.Run("RewriteQuery passthrough", func(t *testing.T) {
		query := "SELECT * FROM users WHERE id = ? AND role = ?"
		if got := d.RewriteQuery(query); got != query {
			t.Errorf("RewriteQuery() = %q, want unchanged", got)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if !d.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() = false, want true")
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		if got := d.MigrationsSubdir(); got != "sqlite" {
			t.Errorf("MigrationsSubdir() = %q, want sqlite", got)
		}
	})
}

func TestPostgresDialect(t *testing.T) {
	d := NewPostgresDialect()

	t.Run("DriverName", func(t *testing.T) {
		if got := d.DriverName(); got != "postgres" {
			t.Errorf("DriverName() = %q, want postgres", got)
		}
	})

	t.Run("RewriteQuery numbers placeholders", func(t *testing.T) {
		tests := []struct {
			name  string
			query string
			want  string
		}{
			{
				"single placeholder",
				"SELECT * FROM users WHERE id = ?",
				"SELECT * FROM users WHERE id = $1",
			},
			{
				"multiple placeholders",
				"INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)",
				"INSERT INTO sessions (id, user_id, expires_at) VALUES ($1, $2, $3)",
			},
			{
				"no placeholders",
				"SELECT COUNT(*) FROM users",
				"SELECT COUNT(*) FROM users",
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if got := d.RewriteQuery(tt.query); got != tt.want {
					t.Errorf("RewriteQuery() = %q, want %q", got, tt.want)
				}
			})
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if d.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() = true, want false")
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		if got := d.MigrationsSubdir(); got != "postgres" {
			t.Errorf("MigrationsSubdir() = %q, want postgres", got)
		}
	})
}

func TestMySQLDialect(t *testing.T) {
	d := NewMySQLDialect()

	t.Run("DriverName", func(t *testing.T) {
		if got := d.DriverName(); got != "mysql" {
			t.Errorf("DriverName() = %q, want mysql", got)
		}
	})

	t.Run("RewriteQuery passthrough", func(t *testing.T) {
		query := "UPDATE tasks SET is_completed = ? WHERE id = ?"
		if got := d.RewriteQuery(query); got != query {
			t.Errorf("RewriteQuery() = %q, want unchanged", got)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if !d.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() = false, want true")
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		if got := d.MigrationsSubdir(); got != "mysql" {
			t.Errorf("MigrationsSubdir() = %q, want mysql", got)
		}
	})
}
