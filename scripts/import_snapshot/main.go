// Command import_snapshot submits a snapshot export file to a running
// sync-gateway and polls the import run until it settles. Useful for manual
// backfills and smoke-testing a deployment.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

type acceptedEnvelope struct {
	Data struct {
		ImportID string `json:"import_id"`
		Status   string `json:"status"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type runEnvelope struct {
	Data struct {
		ID       string          `json:"id"`
		Status   string          `json:"status"`
		Counts   json.RawMessage `json:"counts"`
		Warnings json.RawMessage `json:"warnings"`
		Error    string          `json:"error"`
	} `json:"data"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080/api/v1", "API base URL")
	token := flag.String("token", "", "bearer token")
	file := flag.String("file", "", "snapshot JSON file")
	pollInterval := flag.Duration("poll", 2*time.Second, "status poll interval")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall timeout")
	flag.Parse()

	if *file == "" {
		log.Fatal("missing -file")
	}

	payload, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read snapshot: %v", err)
	}

	client := &http.Client{Timeout: 30 * time.Second}

	importID, status, err := submit(client, *baseURL, *token, payload)
	if err != nil {
		log.Fatalf("submit snapshot: %v", err)
	}
	fmt.Printf("import %s queued (status=%s)\n", importID, status)

	if status == "skipped" {
		fmt.Println("identical snapshot already imported, nothing to do")
		return
	}

	deadline := time.Now().Add(*timeout)
	for time.Now().Before(deadline) {
		time.Sleep(*pollInterval)

		run, err := fetchRun(client, *baseURL, *token, importID)
		if err != nil {
			log.Printf("poll run: %v", err)
			continue
		}

		switch run.Data.Status {
		case "completed":
			fmt.Printf("import completed\ncounts: %s\n", string(run.Data.Counts))
			if len(run.Data.Warnings) > 0 && string(run.Data.Warnings) != "null" {
				fmt.Printf("warnings: %s\n", string(run.Data.Warnings))
			}
			return
		case "failed":
			log.Fatalf("import failed: %s", run.Data.Error)
		default:
			fmt.Printf("status: %s\n", run.Data.Status)
		}
	}

	log.Fatalf("import %s did not settle within %s", importID, *timeout)
}

func submit(client *http.Client, baseURL, token string, payload []byte) (string, string, error) {
	req, err := http.NewRequest(http.MethodPost, baseURL+"/imports/snapshot", bytes.NewReader(payload))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", err
	}

	var envelope acceptedEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", "", fmt.Errorf("decode response (%d): %w", resp.StatusCode, err)
	}
	if envelope.Error != nil {
		return "", "", fmt.Errorf("%s: %s", envelope.Error.Code, envelope.Error.Message)
	}
	return envelope.Data.ImportID, envelope.Data.Status, nil
}

func fetchRun(client *http.Client, baseURL, token, id string) (*runEnvelope, error) {
	req, err := http.NewRequest(http.MethodGet, baseURL+"/imports/"+id, nil)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var envelope runEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode run (%d): %w", resp.StatusCode, err)
	}
	return &envelope, nil
}
