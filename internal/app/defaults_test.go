package app

import "testing"

func TestGetDefaults(t *testing.T) {
	t.Run("empty environment yields empty defaults", func(t *testing.T) {
		t.Setenv("DEADWOOD_MONGO_URI", "")
		t.Setenv("MONGODB_URI", "")
		t.Setenv("DEADWOOD_DB", "")
		t.Setenv("DEADWOOD_LOG_DIR", "")

		d := GetDefaults()
		if d["store_uri"] != "" || d["store_db"] != "" || d["log_dir"] != "" {
			t.Errorf("defaults = %v, want all empty", d)
		}
	})

	t.Run("dedicated variable wins over generic fallback", func(t *testing.T) {
		t.Setenv("DEADWOOD_MONGO_URI", "mongodb://primary:27017")
		t.Setenv("MONGODB_URI", "mongodb://fallback:27017")

		d := GetDefaults()
		if d["store_uri"] != "mongodb://primary:27017" {
			t.Errorf("store_uri = %q, want the dedicated variable", d["store_uri"])
		}
	})

	t.Run("generic fallback used when dedicated is unset", func(t *testing.T) {
		t.Setenv("DEADWOOD_MONGO_URI", "")
		t.Setenv("MONGODB_URI", "mongodb://fallback:27017")

		d := GetDefaults()
		if d["store_uri"] != "mongodb://fallback:27017" {
			t.Errorf("store_uri = %q, want the fallback variable", d["store_uri"])
		}
	})

	t.Run("database and log dir pass through", func(t *testing.T) {
		t.Setenv("DEADWOOD_DB", "archive")
		t.Setenv("DEADWOOD_LOG_DIR", "/var/log/deadwood")

		d := GetDefaults()
		if d["store_db"] != "archive" || d["log_dir"] != "/var/log/deadwood" {
			t.Errorf("defaults = %v", d)
		}
	})
}
