package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL         = "http://127.0.0.1:18090"
	numWorkers      = 50
	testDuration    = 10 * time.Second
	numItems        = 500
	numFingerprints = 2000
)

var voteKinds = []string{"helpful", "not_helpful"}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== EMT Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n", numWorkers, testDuration)
	fmt.Printf("Items: %d | Fingerprints: %d\n\n", numItems, numFingerprints)

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Phase 1: Seed engagement with write traffic
	fmt.Println("\n--- Phase 1: Seeding engagement (POST /views, /votes, /saves) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.70:
			return doTrackView(rng)
		case r < 0.90:
			return doToggleVote(rng)
		default:
			return doToggleSave(rng)
		}
	})

	// Let at least one trending run land before reading
	fmt.Println("\nRecomputing trending...")
	resp, err := httpClient.Post(baseURL+"/admin/trending/recompute", "application/json", nil)
	if err == nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}

	// Phase 2: Mixed read/write load
	fmt.Println("\n--- Phase 2: Mixed load (60% writes, 40% reads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.40:
			return doTrackView(rng)
		case r < 0.55:
			return doToggleVote(rng)
		case r < 0.60:
			return doToggleSave(rng)
		case r < 0.85:
			return doGetMetrics(rng)
		default:
			return doGetTrending()
		}
	})

	// Phase 3: Read-heavy load
	fmt.Println("\n--- Phase 3: Read-heavy load (10% writes, 90% reads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.10:
			return doTrackView(rng)
		case r < 0.60:
			return doGetMetrics(rng)
		default:
			return doGetTrending()
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-26s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 92))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-26s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 92))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func randomItem(rng *rand.Rand) string {
	return fmt.Sprintf("guide-%d", rng.Intn(numItems)+1)
}

func randomFingerprint(rng *rand.Rand) string {
	return fmt.Sprintf("fp_%d", rng.Intn(numFingerprints))
}

func doTrackView(rng *rand.Rand) result {
	body := map[string]interface{}{
		"itemId":      randomItem(rng),
		"fingerprint": randomFingerprint(rng),
	}
	if rng.Float64() < 0.5 {
		body["dwellTime"] = rng.Float64() * 300
	}

	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/views", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /views", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /views", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doToggleVote(rng *rand.Rand) result {
	body := map[string]interface{}{
		"itemId":      randomItem(rng),
		"fingerprint": randomFingerprint(rng),
		"vote":        voteKinds[rng.Intn(len(voteKinds))],
	}

	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/votes", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /votes", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /votes", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doToggleSave(rng *rand.Rand) result {
	body := map[string]interface{}{
		"itemId":      randomItem(rng),
		"fingerprint": randomFingerprint(rng),
	}

	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/saves", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /saves", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /saves", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetMetrics(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/metrics/item?id=%s&f=%s", baseURL, randomItem(rng), randomFingerprint(rng))
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /metrics/item", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /metrics/item", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetTrending() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/trending")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /trending", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /trending", resp.StatusCode, lat, resp.StatusCode != 200}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
