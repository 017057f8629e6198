package counter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// KVKeyPrefix namespaces counter keys in the shared key-value service.
const KVKeyPrefix = "vc:"

// HTTPClient defines the interface for making HTTP requests.
// This allows for mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// KVStore talks to an Upstash-compatible Redis REST endpoint. Every command is
// executed server-side, so increments are atomic across all instances.
type KVStore struct {
	url    string
	token  string
	client HTTPClient
}

// NewKVStore builds a store for the REST endpoint at url. A nil client gets a
// default with a short timeout.
func NewKVStore(url, token string, client HTTPClient) *KVStore {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &KVStore{
		url:    strings.TrimRight(url, "/"),
		token:  token,
		client: client,
	}
}

type kvReply struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

// Ping checks connectivity and credentials.
func (s *KVStore) Ping(ctx context.Context) error {
	var reply kvReply
	if err := s.do(ctx, s.url, []any{"PING"}, &reply); err != nil {
		return err
	}
	if reply.Error != "" {
		return fmt.Errorf("kv ping failed: %s", reply.Error)
	}
	return nil
}

// Get implements Store.
func (s *KVStore) Get(ctx context.Context, key string) (int64, bool, error) {
	var reply kvReply
	if err := s.do(ctx, s.url, []any{"GET", KVKeyPrefix + key}, &reply); err != nil {
		return 0, false, err
	}
	if reply.Error != "" {
		return 0, false, fmt.Errorf("kv get %s failed: %s", key, reply.Error)
	}
	return parseKVInt(reply.Result)
}

// Increment implements Store. The seed is written with SET NX in the same
// pipeline as INCR, so racing first visits still count every hit.
func (s *KVStore) Increment(ctx context.Context, key string, opts ...Option) (int64, error) {
	o := applyOptions(opts)
	k := KVKeyPrefix + key

	commands := make([][]any, 0, 2)
	if o.seed != 0 {
		commands = append(commands, []any{"SET", k, strconv.FormatInt(o.seed, 10), "NX"})
	}
	commands = append(commands, []any{"INCR", k})

	var replies []kvReply
	if err := s.do(ctx, s.url+"/pipeline", commands, &replies); err != nil {
		return 0, err
	}
	if len(replies) != len(commands) {
		return 0, fmt.Errorf("kv pipeline for %s returned %d replies, want %d", key, len(replies), len(commands))
	}
	for _, r := range replies {
		if r.Error != "" {
			return 0, fmt.Errorf("kv increment %s failed: %s", key, r.Error)
		}
	}

	v, ok, err := parseKVInt(replies[len(replies)-1].Result)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("kv increment %s returned no value", key)
	}
	return v, nil
}

// Backend implements Store.
func (s *KVStore) Backend() string { return "kv" }

func (s *KVStore) do(ctx context.Context, url string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode kv command: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create kv request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("kv request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read kv response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("kv request returned non-200 status: %d, body: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode kv response: %w", err)
	}
	return nil
}

// parseKVInt accepts the REST API's integer replies as well as the string
// replies GET produces. A JSON null means the key does not exist.
func parseKVInt(raw json.RawMessage) (int64, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, false, nil
	}
	var s string
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return 0, false, fmt.Errorf("failed to decode kv value: %w", err)
		}
	} else {
		s = string(trimmed)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("kv value %q is not an integer: %w", s, err)
	}
	return v, true, nil
}
