package geth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	staticNodesFile = "static-nodes.json"
	genesisFile     = "genesis.json"
)

// initDataDir prepares the client data directory: it creates the directory if
// absent, persists the static node set, and re-runs the client's genesis
// initialization. Initialization runs on every construction so that genesis
// state left behind by another network is overwritten.
func initDataDir(ctx context.Context, log *zap.Logger, bin string, cfg Config) error {
	info, err := os.Stat(cfg.DataDir)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	case err != nil:
		return fmt.Errorf("stat data directory: %w", err)
	case !info.IsDir():
		return &NotADirectoryError{Path: cfg.DataDir}
	}

	if len(cfg.StaticNodes) > 0 {
		if err := writeStaticNodes(cfg.DataDir, cfg.StaticNodes); err != nil {
			return err
		}
		log.Info("wrote static nodes", zap.Int("count", len(cfg.StaticNodes)))
	}

	genBz := cfg.GenesisJSON
	if len(genBz) == 0 {
		genBz, err = DefaultGenesisJSON()
		if err != nil {
			return err
		}
	}
	genesisPath := filepath.Join(cfg.DataDir, genesisFile)
	if err := os.WriteFile(genesisPath, genBz, 0644); err != nil {
		return fmt.Errorf("write genesis definition: %w", err)
	}

	cmd := exec.CommandContext(ctx, bin, "--datadir", cfg.DataDir, "init", genesisPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return &GenesisInitError{Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	log.Info("initialized chain state", zap.String("data_dir", cfg.DataDir), zap.String("cmd", strings.Join(cmd.Args, " ")))
	return nil
}

// writeStaticNodes serializes the enode URLs to static-nodes.json, replacing
// any prior content.
func writeStaticNodes(dataDir string, enodes []string) error {
	bz, err := json.MarshalIndent(enodes, "", "  ")
	if err != nil {
		return fmt.Errorf("encode static nodes: %w", err)
	}
	path := filepath.Join(dataDir, staticNodesFile)
	if err := os.WriteFile(path, bz, 0644); err != nil {
		return fmt.Errorf("write %s: %w", staticNodesFile, err)
	}
	return nil
}
