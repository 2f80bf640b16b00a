package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/linedb/linedb/internal/blob"
	"github.com/linedb/linedb/internal/conn"
	"github.com/linedb/linedb/internal/snapshot"
	"github.com/linedb/linedb/pkg"
)

func main() {
	cwd, _ := os.Getwd()

	db_path := flag.String("db", cwd+"/linedb.data", "snapshot location: a directory, s3://bucket/prefix, minio://host/bucket or mem://")
	in_mem := flag.Bool("m", false, "don't persist db")
	port := flag.Int("port", 8080, "tcp listening port")
	ws_port := flag.Int("ws-port", 8081, "websocket listening port")
	write_threshold := flag.Int64("write-threshold", 100, "writes between snapshots")
	save_interval := flag.Int64("save-interval", 5000, "max ms between snapshots with writes pending")
	compression := flag.String("compression", "none", "snapshot compression: none, lz4 or zstd")
	should_log := flag.Bool("log", true, "enable logging")
	show_debug_logs := flag.Bool("dbg", false, "show debug logs")

	flag.Parse()

	if *should_log {
		if *show_debug_logs {
			pkg.SetLogLevel(pkg.LogLevelDebug)
		} else {
			pkg.SetLogLevel(pkg.LogLevelErrOnly)
		}
	} else {
		pkg.SetLogLevel(pkg.LogLevelNone)
	}

	codec, err := snapshot.ParseCompressionType(*compression)
	if err != nil {
		pkg.FatalLog(err)
	}

	settings := snapshot.Settings{
		WriteThreshold: *write_threshold,
		SaveInterval:   time.Duration(*save_interval) * time.Millisecond,
		Compression:    codec,
		InMem:          *in_mem,
	}

	ctx := context.Background()

	var blobs blob.Store
	if !*in_mem {
		if len(*db_path) == 0 {
			pkg.FatalLog("Must either provide db path or use in-memory mode")
		}
		blobs, err = blob.Open(ctx, *db_path)
		if err != nil {
			pkg.FatalLog(err)
		}
	}

	manager := snapshot.NewManager(nil, blobs, settings)
	db, err := manager.Load(ctx)
	if err != nil {
		pkg.FatalLog("failed to load snapshot;", err)
	}

	srv := &conn.Server{
		DB:        db,
		Snapshots: manager,
		Port:      *port,
		WsPort:    *ws_port,
	}
	if err := srv.Listen(); err != nil {
		pkg.FatalLog(err)
	}
}
