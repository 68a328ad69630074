/*
Package server implements msgpack IPC for prefix suggestions.

The server reads a stream of msgpack maps from its input (stdin in production) and
writes one msgpack map per request to its output (stdout). Before the first request it
writes a StatusResponse with status "ready".

# Requests

Every request carries an ID that is echoed back, an action and a prefix:

	{"id": "req_001", "p": "ca"}
	{"id": "req_002", "a": "top", "p": "ca", "l": 5}
	{"id": "req_003", "a": "define", "p": "cart"}
	{"id": "req_004", "a": "stats"}

An empty action means "suggest". The empty prefix is valid and matches every word.

# Responses

suggest answers with the best word and the number of words sharing the prefix:

	{"id": "req_001", "ok": true, "w": "car", "d": "a road vehicle", "f": 5, "c": 3, "t": 4}

A prefix no word starts with is not an error: "ok" is false and "c" is 0.
Timings in "t" are microseconds.

Errors use ErrorResponse with an HTTP-like code: 400 bad request, 429 rate limited,
500 internal.
*/
package server

// Action names accepted in Request.Action.
const (
	ActionSuggest = "suggest"
	ActionTop     = "top"
	ActionDefine  = "define"
	ActionStats   = "stats"
)

// Request is the single request shape for every action
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"a,omitempty"`
	Prefix string `msgpack:"p"`
	Limit  int    `msgpack:"l,omitempty"`
}

// StatusResponse is sent once when the server is ready
type StatusResponse struct {
	Status string `msgpack:"status"`
	Words  int    `msgpack:"words"`
}

// SuggestResponse - best word for a prefix
type SuggestResponse struct {
	ID         string `msgpack:"id"`
	Found      bool   `msgpack:"ok"`
	Word       string `msgpack:"w,omitempty"`
	Definition string `msgpack:"d,omitempty"`
	Frequency  int    `msgpack:"f,omitempty"`
	Count      int    `msgpack:"c"`
	TimeTaken  int64  `msgpack:"t"`
}

// TopSuggestion - one ranked word in a TopResponse
type TopSuggestion struct {
	Word      string `msgpack:"w"`
	Frequency int    `msgpack:"f"`
	Rank      uint16 `msgpack:"r"`
}

// TopResponse - ranked words for a prefix; Count is the number of words sharing it
type TopResponse struct {
	ID          string          `msgpack:"id"`
	Suggestions []TopSuggestion `msgpack:"s"`
	Count       int             `msgpack:"c"`
	TimeTaken   int64           `msgpack:"t"`
}

// StatsResponse - dictionary statistics
type StatsResponse struct {
	ID    string         `msgpack:"id"`
	Stats map[string]int `msgpack:"stats"`
}

// ErrorResponse holds basic error information for any request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
