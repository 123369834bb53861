// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads private settings from a directory of plain-text files.
// Each file holds one value: the filename is the key and the trimmed contents
// are the value. The only key sieve reads is arxiv-contact-email, which goes
// into the User-Agent so arXiv can reach the operator about heavy traffic.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ContactEmailKey names the file holding the operator's contact address.
const ContactEmailKey = "arxiv-contact-email"

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory is not an error; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.WithField("secret", name).WithError(err).Warn("could not read secret")
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// ContactEmail returns the arXiv contact address, or "" when none is set.
func ContactEmail(s map[string]string) string {
	return s[ContactEmailKey]
}

// UserAgent builds the User-Agent header for requests to arXiv.
func UserAgent(version, email string) string {
	ua := "sieve/" + version
	if email != "" {
		ua += " (mailto:" + email + ")"
	}
	return ua
}
