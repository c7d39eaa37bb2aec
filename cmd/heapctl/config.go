package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/heapkit/heap/alloc"
)

// traceSet is the YAML file accepted by replay --config.
//
//	traces:
//	  - short1.rep
//	  - realloc-bal.rep
//	preset: Fine
//	max_heap: 20MiB
//	check: true
type traceSet struct {
	Traces  []string `yaml:"traces"`
	Preset  string   `yaml:"preset"`
	MaxHeap string   `yaml:"max_heap"`
	Check   bool     `yaml:"check"`
	File    string   `yaml:"file"`
}

// runConfig is the merged configuration of one replay invocation.
type runConfig struct {
	traces  []string
	config  alloc.Config
	maxHeap int
	check   bool
	file    string
}

// readTraceSet decodes a trace-set file. Relative trace paths are resolved
// against the file's directory.
func readTraceSet(path string) (*traceSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ts := &traceSet{}
	d := yaml.NewDecoder(f)
	d.KnownFields(true)
	if err := d.Decode(ts); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i, tp := range ts.Traces {
		if !filepath.IsAbs(tp) {
			ts.Traces[i] = filepath.Join(dir, tp)
		}
	}
	return ts, nil
}

// parseSize accepts plain byte counts or humanized sizes such as "20MiB".
func parseSize(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("bad size %q: %w", s, err)
	}
	if n > uint64(int(^uint(0)>>1)) {
		return 0, fmt.Errorf("size %q too large", s)
	}
	return int(n), nil
}
