// score_bids.go: standalone script that ranks a YAML file of candidate bids via the Bidscore API.
//
// Usage:
//
//	go run scripts/score_bids.go -file bids.yaml -api http://localhost:8700 -client marketplace
//
// The file lists candidates the way the rank endpoint expects them:
//
//	preset: client_focused
//	candidates:
//	  - id: studio-a
//	    input:
//	      factors:
//	        price_ratio: 0.9
//	        provider_rating: 4.5
//	        ...
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
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Bidscore/internal/scoring"
)

type batch struct {
	Preset     string              `yaml:"preset" json:"preset,omitempty"`
	Mode       string              `yaml:"mode" json:"mode,omitempty"`
	Candidates []scoring.Candidate `yaml:"candidates" json:"candidates"`
}

type rankResponse struct {
	Ranking []scoring.Ranked `json:"ranking"`
}

func main() {
	path := flag.String("file", "bids.yaml", "path to YAML candidate file")
	apiURL := flag.String("api", "http://localhost:8700", "Bidscore API base URL")
	clientID := flag.String("client", "score-script", "X-Client-ID header value")
	dryRun := flag.Bool("dry-run", false, "validate candidates locally without posting")
	flag.Parse()

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("read %s: %v", *path, err)
	}
	var b batch
	if err := yaml.Unmarshal(data, &b); err != nil {
		log.Fatalf("parse %s: %v", *path, err)
	}
	log.Printf("parsed %d candidates from %s", len(b.Candidates), *path)

	if *dryRun {
		invalid := 0
		for i, c := range b.Candidates {
			status := "ok"
			if err := scoring.Validate(c.Input); err != nil {
				status = err.Error()
				invalid++
			}
			fmt.Printf("[%d] %s (price_ratio=%.2f): %s\n", i+1, c.ID, c.Input.Factors.PriceRatio, status)
		}
		log.Printf("done: %d valid, %d invalid", len(b.Candidates)-invalid, invalid)
		return
	}

	body, err := json.Marshal(b)
	if err != nil {
		log.Fatalf("encode request: %v", err)
	}
	req, err := http.NewRequest("POST", strings.TrimRight(*apiURL, "/")+"/api/v1/scoring/rank", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-ID", *clientID)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("post candidates: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		log.Fatalf("rank failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out rankResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Fatalf("decode response: %v", err)
	}

	for _, r := range out.Ranking {
		flags := ""
		if r.Shortlisted {
			flags += " shortlisted"
		}
		if r.OnFrontier {
			flags += " frontier"
		}
		anomalies := make([]string, len(r.Result.Anomalies))
		for i, a := range r.Result.Anomalies {
			anomalies[i] = string(a)
		}
		fmt.Printf("%2d. %-20s score=%3d band=%-9s confidence=%2d anomalies=[%s]%s\n",
			r.Position, r.ID, r.Result.TotalScore, r.Result.Band, r.Result.Confidence,
			strings.Join(anomalies, ","), flags)
	}
}
