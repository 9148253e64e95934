package state

import (
	"archive/zip"
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"bionic/config"
)

func TestEnvFromContext(t *testing.T) {
	t.Run("valid context", func(t *testing.T) {
		env := EnvFromContext(ContextWithEnv(context.Background()))
		if env == nil {
			t.Fatal("EnvFromContext() returned nil")
		}
		if env.start.IsZero() {
			t.Error("Environment start time not set")
		}
	})

	t.Run("panic on missing env", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic when env not in context")
			}
		}()
		EnvFromContext(context.Background())
	})

	t.Run("same env for derived context", func(t *testing.T) {
		ctx := ContextWithEnv(context.Background())
		child, cancel := context.WithCancel(ctx)
		defer cancel()
		if EnvFromContext(ctx) != EnvFromContext(child) {
			t.Error("derived context returned different environment")
		}
	})
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := &LocalEnv{start: time.Now().Add(-time.Second)}
	if up := env.Uptime(); up < time.Second || up > time.Minute {
		t.Errorf("Uptime() = %v, want about a second", up)
	}
}

func TestLocalEnv_RedirectStdLog(t *testing.T) {
	t.Run("std log ends in zap", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		env := &LocalEnv{Log: zap.New(core)}

		env.RedirectStdLog()
		log.Print("charset fallback")
		env.RestoreStdLog()

		if logs.FilterMessage("charset fallback").Len() != 1 {
			t.Errorf("std log message not redirected, got %v", logs.All())
		}

		log.SetOutput(io.Discard)
		defer log.SetOutput(os.Stderr)
		log.Print("after restore")
		if logs.FilterMessage("after restore").Len() != 0 {
			t.Error("std log still redirected after restore")
		}
	})

	t.Run("without logger", func(t *testing.T) {
		env := &LocalEnv{}
		env.RedirectStdLog()
		if env.restoreStdLog != nil {
			t.Error("Expected restoreStdLog to remain nil")
		}
		env.RestoreStdLog()
	})

	t.Run("repeated cycles", func(t *testing.T) {
		env := &LocalEnv{Log: zaptest.NewLogger(t)}
		for i := range 3 {
			env.RedirectStdLog()
			if env.restoreStdLog == nil {
				t.Errorf("Iteration %d: restoreStdLog not set", i)
			}
			env.RestoreStdLog()
		}
	})
}

func writeStyle(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "extra.css")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLocalEnv_LoadExtraStyle(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		env := &LocalEnv{Cfg: &config.Config{}}
		if err := env.LoadExtraStyle(); err != nil {
			t.Fatalf("LoadExtraStyle() error = %v", err)
		}
		if env.ExtraStyle != nil {
			t.Error("ExtraStyle expected to stay nil")
		}
	})

	t.Run("configured", func(t *testing.T) {
		path := writeStyle(t, ".note { display: inline }")
		env := &LocalEnv{Cfg: &config.Config{Document: config.DocumentConfig{StylesheetPath: path}}}
		if err := env.LoadExtraStyle(); err != nil {
			t.Fatalf("LoadExtraStyle() error = %v", err)
		}
		if string(env.ExtraStyle) != ".note { display: inline }" {
			t.Errorf("ExtraStyle = %q", env.ExtraStyle)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		env := &LocalEnv{Cfg: &config.Config{Document: config.DocumentConfig{StylesheetPath: "/nonexistent/extra.css"}}}
		if err := env.LoadExtraStyle(); err == nil {
			t.Error("expected error for missing stylesheet")
		}
	})

	t.Run("stored in report", func(t *testing.T) {
		path := writeStyle(t, ".note { display: inline }")
		conf := config.ReporterConfig{Destination: filepath.Join(t.TempDir(), "report.zip")}
		rpt, err := conf.Prepare()
		if err != nil {
			t.Fatal(err)
		}
		env := &LocalEnv{
			Cfg: &config.Config{Document: config.DocumentConfig{StylesheetPath: path}},
			Rpt: rpt,
		}
		if err := env.LoadExtraStyle(); err != nil {
			t.Fatalf("LoadExtraStyle() error = %v", err)
		}
		// report keeps what was actually used
		if err := os.WriteFile(path, []byte("changed"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := rpt.Close(); err != nil {
			t.Fatal(err)
		}

		zr, err := zip.OpenReader(conf.Destination)
		if err != nil {
			t.Fatal(err)
		}
		defer zr.Close()
		f, err := zr.Open("extra.css")
		if err != nil {
			t.Fatalf("extra.css not in report: %v", err)
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if string(data) != ".note { display: inline }" {
			t.Errorf("report extra.css = %q", data)
		}
	})
}
