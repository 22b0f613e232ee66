package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numRecords   = 200
)

var unitNames = []string{"hour", "day", "week", "month", "year"}

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
	fmt.Println("=== Sobriety Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s | Records: %d\n\n", numWorkers, testDuration, numRecords)

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

	// Phase 1: Seed records, 409 means a previous run created it
	fmt.Println("\n--- Phase 1: Seeding records (POST /addictions) ---")
	seed := make(map[string]*stats)
	start := time.Now()
	for i := 0; i < numRecords; i++ {
		r := post("POST /addictions", "/addictions", map[string]any{
			"name":     recordName(i),
			"priority": []string{"high", "medium", "low"}[i%3],
		}, http.StatusCreated, http.StatusConflict)
		collect(seed, r)
	}
	printResults(seed, time.Since(start))

	// Phase 2: Mixed read/write load
	fmt.Println("\n--- Phase 2: Mixed load (60% POST, 40% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.20:
			return doStop(rng)
		case r < 0.40:
			return doRelapse(rng)
		case r < 0.50:
			return doNote(rng)
		case r < 0.60:
			return doMilestone(rng)
		case r < 0.80:
			return doGetList()
		default:
			return doGetOne(rng)
		}
	})

	// Phase 3: Read-heavy load
	fmt.Println("\n--- Phase 3: Read-heavy load (10% POST, 90% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.05:
			return doStop(rng)
		case r < 0.10:
			return doRelapse(rng)
		case r < 0.55:
			return doGetList()
		default:
			return doGetOne(rng)
		}
	})
}

func recordName(i int) string {
	return fmt.Sprintf("load_%d", i)
}

func collect(all map[string]*stats, r result) {
	s, ok := all[r.endpoint]
	if !ok {
		s = &stats{}
		all[r.endpoint] = s
	}
	s.count++
	if r.err {
		s.errors++
	}
	s.latencies = append(s.latencies, r.latency)
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
			collect(allResults, r)
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

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 88))

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

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func post(endpoint, path string, body any, ok ...int) result {
	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+path, "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, !accepted(resp.StatusCode, ok)}
}

func get(endpoint, path string) result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func accepted(status int, ok []int) bool {
	for _, code := range ok {
		if status == code {
			return true
		}
	}
	return false
}

func randomName(rng *rand.Rand) string {
	return recordName(rng.Intn(numRecords))
}

func doStop(rng *rand.Rand) result {
	return post("POST /addiction/stop", "/addiction/stop", map[string]any{"name": randomName(rng)}, http.StatusOK)
}

func doRelapse(rng *rand.Rand) result {
	return post("POST /addiction/relapse", "/addiction/relapse", map[string]any{"name": randomName(rng)}, http.StatusOK)
}

func doNote(rng *rand.Rand) result {
	return post("POST /addiction/notes", "/addiction/notes", map[string]any{
		"name": randomName(rng),
		"text": fmt.Sprintf("note %d", rng.Intn(1000)),
	}, http.StatusOK)
}

// doMilestone may hit an existing milestone, which the API answers with 409.
func doMilestone(rng *rand.Rand) result {
	return post("POST /addiction/milestones", "/addiction/milestones", map[string]any{
		"name":  randomName(rng),
		"count": rng.Intn(30) + 1,
		"unit":  unitNames[rng.Intn(len(unitNames))],
	}, http.StatusCreated, http.StatusConflict)
}

func doGetList() result {
	return get("GET /addictions", "/addictions")
}

func doGetOne(rng *rand.Rand) result {
	return get("GET /addiction", "/addiction?name="+url.QueryEscape(randomName(rng)))
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
		return fmt.Sprintf("%dÂµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
