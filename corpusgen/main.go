// Copyright (C) 2024 Christian Rößner
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// Corpusgen builds run request bodies for the batchmeter server. It either
// collects text files from a directory or synthesizes documents, attaches
// the given questions to each one and writes the request as JSON, optionally
// submitting it directly.
package main

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type document struct {
	ID        string   `json:"id"`
	Content   string   `json:"content"`
	Questions []string `json:"questions,omitempty"`
}

type runRequest struct {
	Documents         []document `json:"documents"`
	BatchSize         int        `json:"batch_size,omitempty"`
	ConcurrentBatches int        `json:"concurrent_batches,omitempty"`
	Workers           int        `json:"workers,omitempty"`
	ItemTimeoutMs     int        `json:"item_timeout_ms,omitempty"`
}

var sentencePool = []string{
	"The shipment left the warehouse two days behind schedule.",
	"Quarterly revenue exceeded the forecast by a narrow margin.",
	"The committee postponed its decision until the next session.",
	"Maintenance windows are announced at least one week in advance.",
	"The survey covered four thousand households in three regions.",
	"Initial measurements showed no deviation from the baseline.",
	"The contract renewal includes an updated service level annex.",
	"Field teams reported intermittent connectivity at two sites.",
}

func collectDocuments(dir string) ([]document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var documents []document

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		documents = append(documents, document{
			ID:      strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			Content: base64.StdEncoding.EncodeToString(content),
		})
	}

	return documents, nil
}

func synthesizeDocuments(count int, sentences int) []document {
	documents := make([]document, 0, count)

	for docIndex := 1; docIndex <= count; docIndex++ {
		var builder strings.Builder

		for s := 0; s < sentences; s++ {
			builder.WriteString(sentencePool[rand.IntN(len(sentencePool))])
			builder.WriteString(" ")
		}

		documents = append(documents, document{
			ID:      fmt.Sprintf("synthetic-%04d", docIndex),
			Content: base64.StdEncoding.EncodeToString([]byte(builder.String())),
		})
	}

	return documents
}

func attachQuestions(documents []document, questions []string) {
	for index := range documents {
		documents[index].Questions = questions
	}
}

func buildRequest(documents []document) runRequest {
	return runRequest{
		Documents:         documents,
		BatchSize:         viper.GetInt("batch-size"),
		ConcurrentBatches: viper.GetInt("concurrent-batches"),
		Workers:           viper.GetInt("workers"),
		ItemTimeoutMs:     viper.GetInt("item-timeout-ms"),
	}
}

func submitRequest(url string, body []byte) error {
	httpClient := http.Client{Timeout: 30 * time.Second}

	resp, err := httpClient.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	responseBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(responseBody))
	}

	color.Green("Run accepted: %s", strings.TrimSpace(string(responseBody)))

	return nil
}

func main() {
	pflag.StringP("dir", "d", "", "Directory of text files to use as documents")
	pflag.StringP("out", "o", "corpus.json", "Output path of the generated run request")
	pflag.IntP("count", "c", 20, "Number of synthetic documents when no directory is given")
	pflag.Int("sentences", 12, "Sentences per synthetic document")
	pflag.StringSliceP("question", "q", nil, "Question attached to every document (repeatable)")
	pflag.Int("batch-size", 0, "Batch size of the run request (0=server default)")
	pflag.Int("concurrent-batches", 0, "Concurrent batches of the run request (0=server default)")
	pflag.Int("workers", 0, "Per-batch workers of the run request (0=server default)")
	pflag.Int("item-timeout-ms", 0, "Per-item timeout of the run request (0=server default)")
	pflag.String("submit", "", "Submit the request to this server URL instead of only writing the file")
	pflag.Parse()

	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		color.Red("Error binding flags: %s", err.Error())
		os.Exit(1)
	}

	var (
		documents []document
		err       error
	)

	if dir := viper.GetString("dir"); dir != "" {
		documents, err = collectDocuments(dir)
		if err != nil {
			color.Red("Error reading documents: %s", err.Error())
			os.Exit(1)
		}
	} else {
		documents = synthesizeDocuments(viper.GetInt("count"), viper.GetInt("sentences"))
	}

	if len(documents) == 0 {
		color.Red("No documents collected")
		os.Exit(1)
	}

	attachQuestions(documents, viper.GetStringSlice("question"))

	body, err := json.MarshalIndent(buildRequest(documents), "", "  ")
	if err != nil {
		color.Red("Error marshaling request: %s", err.Error())
		os.Exit(1)
	}

	outPath := viper.GetString("out")
	if err := os.WriteFile(outPath, body, 0o644); err != nil {
		color.Red("Error writing %s: %s", outPath, err.Error())
		os.Exit(1)
	}

	color.Yellow("Wrote %d documents to %s", len(documents), outPath)

	if url := viper.GetString("submit"); url != "" {
		if err := submitRequest(url, body); err != nil {
			color.Red("Error submitting run: %s", err.Error())
			os.Exit(1)
		}
	}
}
