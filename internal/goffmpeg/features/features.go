// Package features probes what a ffmpeg binary supports
package features

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

type VersionParts struct {
	Full    string `json:"full"`
	Release string `json:"release"`
	Major   uint   `json:"major"`
	Minor   uint   `json:"minor"`
	Patch   uint   `json:"patch"`
}

type Filter struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Inputs      string `json:"inputs"`
	Outputs     string `json:"outputs"`
	Timeline    bool   `json:"timeline"`
}

func reMatchNamedGroups(re *regexp.Regexp, s string) map[string]string {
	match := re.FindStringSubmatch(s)
	if match == nil {
		return nil
	}
	result := map[string]string{}
	for i, name := range re.SubexpNames() {
		if i != 0 && name != "" {
			result[name] = match[i]
		}
	}
	return result
}

/*
ffmpeg version n4.0 Copyright (c) 2000-2018 the FFmpeg developers
ffmpeg version 4.2 Copyright (c) 2000-2019 the FFmpeg developers
ffmpeg version 7.1.1-1ubuntu1 Copyright (c) 2000-2025 the FFmpeg developers
*/
var versionLineRe = regexp.MustCompile(`` +
	`^ffmpeg version ` +
	`(?P<release>` +
	`(?:\w*?(?P<major>\d+))` +
	`(?:\.(?P<minor>\d+))` +
	`(?:\.(?P<patch>\d+))?` +
	`\S*)` +
	` Copyright.*$` +
	``)

// ParseVersion parses `ffmpeg -version` output
func ParseVersion(full string) (VersionParts, error) {
	firstLine := strings.SplitN(full, "\n", 2)[0]
	m := reMatchNamedGroups(versionLineRe, strings.TrimSpace(firstLine))
	if m == nil {
		return VersionParts{}, fmt.Errorf("failed to parse version line: %q", firstLine)
	}

	major, _ := strconv.Atoi(m["major"])
	minor, _ := strconv.Atoi(m["minor"])
	patch, _ := strconv.Atoi(m["patch"])

	return VersionParts{
		Full:    full,
		Release: m["release"],
		Major:   uint(major),
		Minor:   uint(minor),
		Patch:   uint(patch),
	}, nil
}

func Version(ffmpegPath string) (VersionParts, error) {
	out, err := exec.CommandContext(context.Background(), ffmpegPath, "-version").Output()
	if err != nil {
		return VersionParts{}, err
	}
	return ParseVersion(string(out))
}

/*
Filters:
  T.. = Timeline support
  .S. = Slice threading
  ..C = Command support
  A = Audio input/output
  V = Video input/output
  N = Dynamic number and/or type of input/output
  | = Source or sink filter
 ... abench            A->A       Benchmark part of a filtergraph.
 T.. ass               V->V       Render ASS subtitles onto input video using the libass library.
*/
var filtersLineRe = regexp.MustCompile(`` +
	`^` +
	`\s*` +
	`(?P<flags>[A-Z.]{2,4})` +
	`\s+` +
	`(?P<name>\S+)` +
	`\s+` +
	`(?P<inputs>\S+)` +
	`->` +
	`(?P<outputs>\S+)` +
	`\s*` +
	`(?P<description>.*?)` +
	`\s*` +
	`$` +
	``)

// ParseFilters parses `ffmpeg -filters` output
func ParseFilters(r io.Reader) ([]Filter, error) {
	s := bufio.NewScanner(r)

	// skip legend
	foundHeaderEnd := false
	for s.Scan() {
		if strings.HasSuffix(s.Text(), "Source or sink filter") {
			foundHeaderEnd = true
			break
		}
	}
	if !foundHeaderEnd {
		if err := s.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("no filters header found")
	}

	var filters []Filter
	for s.Scan() {
		m := reMatchNamedGroups(filtersLineRe, s.Text())
		if m == nil {
			continue
		}
		filters = append(filters, Filter{
			Name:        m["name"],
			Description: m["description"],
			Inputs:      m["inputs"],
			Outputs:     m["outputs"],
			Timeline:    strings.HasPrefix(m["flags"], "T"),
		})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	return filters, nil
}

func Filters(ffmpegPath string) ([]Filter, error) {
	out, err := exec.CommandContext(context.Background(), ffmpegPath, "-hide_banner", "-filters").Output()
	if err != nil {
		return nil, err
	}
	return ParseFilters(bytes.NewReader(out))
}
