package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MasterDimmy/zipologger"
	"github.com/goupdate/probemap/nested"
	"github.com/valyala/fasthttp"
)

var (
	Timeout = 15 * time.Second
)

type Client struct {
	baseURL   string
	client    *fasthttp.Client
	error_log *zipologger.Logger
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &fasthttp.Client{
			ReadTimeout:  Timeout,
			WriteTimeout: Timeout,
		},
	}
}

// sets error log for all methods
func (c *Client) SetErrorLog(log *zipologger.Logger) *Client {
	c.error_log = log
	return c
}

// SetDial overrides the transport dialer, for tests that serve over an
// in-memory listener.
func (c *Client) SetDial(dial fasthttp.DialFunc) *Client {
	c.client.Dial = dial
	return c
}

func (c *Client) post(endpoint string, requestBody interface{}) ([]byte, error) {
	var body []byte
	var err error

	if requestBody != nil {
		body, err = json.Marshal(requestBody)
		if err != nil {
			if c.error_log != nil {
				c.error_log.Printf("post error: [%s] : [%s]", string(body), err.Error())
			}
			return nil, err
		}
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)

	req.SetRequestURI(c.baseURL + endpoint)
	req.Header.SetMethod("POST")
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if err := c.client.DoTimeout(req, resp, Timeout); err != nil {
		if c.error_log != nil {
			c.error_log.Printf("timeout: [%s]", err.Error())
		}
		return nil, err
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		if c.error_log != nil {
			c.error_log.Printf("incorrect status [%d] : [%s]", resp.StatusCode(), string(resp.Body()))
		}
		return nil, fmt.Errorf("%s", resp.Body())
	}

	return bytes.Clone(resp.Body()), nil
}

func (c *Client) get(endpoint string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(c.baseURL + endpoint)
	req.Header.SetMethod("GET")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if err := c.client.DoTimeout(req, resp, Timeout); err != nil {
		if c.error_log != nil {
			c.error_log.Printf("get error: [%s]", err.Error())
		}
		return nil, err
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		if c.error_log != nil {
			c.error_log.Printf("incorrect status [%d] : [%s]", resp.StatusCode(), string(resp.Body()))
		}
		return nil, fmt.Errorf("%s", resp.Body())
	}

	return bytes.Clone(resp.Body()), nil
}

func (c *Client) Clear() error {
	_, err := c.post("/api/clear", nil)
	return err
}

// Create registers a new named root table with the given slot count.
func (c *Client) Create(name string, capacity int) (nested.Handle, error) {
	req := struct {
		Name     string `json:"name"`
		Capacity int    `json:"capacity"`
	}{
		Name:     name,
		Capacity: capacity,
	}
	response, err := c.post("/api/create", req)
	if err != nil {
		return 0, err
	}
	var result struct {
		Handle nested.Handle `json:"handle"`
	}
	err = json.Unmarshal(response, &result)
	if err != nil {
		if c.error_log != nil {
			c.error_log.Printf("create error: [%s] : [%s]", string(response), err.Error())
		}
	}
	return result.Handle, err
}

// Child creates a table and links it under key in the table path leads to.
func (c *Client) Child(name string, path []string, key string, capacity int) (nested.Handle, error) {
	req := struct {
		Name     string   `json:"name"`
		Path     []string `json:"path"`
		Key      string   `json:"key"`
		Capacity int      `json:"capacity"`
	}{
		Name:     name,
		Path:     path,
		Key:      key,
		Capacity: capacity,
	}
	response, err := c.post("/api/child", req)
	if err != nil {
		return 0, err
	}
	var result struct {
		Handle nested.Handle `json:"handle"`
	}
	err = json.Unmarshal(response, &result)
	if err != nil {
		if c.error_log != nil {
			c.error_log.Printf("child error: [%s] : [%s]", string(response), err.Error())
		}
	}
	return result.Handle, err
}

func (c *Client) Put(name string, path []string, key string, value int64) error {
	req := struct {
		Name  string   `json:"name"`
		Path  []string `json:"path"`
		Key   string   `json:"key"`
		Value int64    `json:"value"`
	}{
		Name:  name,
		Path:  path,
		Key:   key,
		Value: value,
	}
	_, err := c.post("/api/put", req)
	if err != nil {
		if c.error_log != nil {
			c.error_log.Printf("put error: [%s]", err.Error())
		}
	}
	return err
}

// Get reads one key of the table path leads to. found is false when the
// key was never put, with no error.
func (c *Client) Get(name string, path []string, key string) (int64, bool, error) {
	req := struct {
		Name string   `json:"name"`
		Path []string `json:"path"`
		Key  string   `json:"key"`
	}{
		Name: name,
		Path: path,
		Key:  key,
	}
	response, err := c.post("/api/get", req)
	if err != nil {
		return 0, false, err
	}
	var result struct {
		Found bool  `json:"found"`
		Value int64 `json:"value"`
	}
	err = json.Unmarshal(response, &result)
	if err != nil {
		if c.error_log != nil {
			c.error_log.Printf("get error: [%s] : [%s]", string(response), err.Error())
		}
		return 0, false, err
	}
	return result.Value, result.Found, nil
}

// Resolve walks the full path and returns the terminal value.
func (c *Client) Resolve(name string, path []string) (int64, error) {
	req := struct {
		Name string   `json:"name"`
		Path []string `json:"path"`
	}{
		Name: name,
		Path: path,
	}
	response, err := c.post("/api/resolve", req)
	if err != nil {
		return 0, err
	}
	var result struct {
		Value int64 `json:"value"`
	}
	err = json.Unmarshal(response, &result)
	if err != nil {
		if c.error_log != nil {
			c.error_log.Printf("resolve error: [%s] : [%s]", string(response), err.Error())
		}
	}
	return result.Value, err
}

// Incr adds delta to the int64 at path and returns the updated value.
func (c *Client) Incr(name string, path []string, delta int64) (int64, error) {
	req := struct {
		Name  string   `json:"name"`
		Path  []string `json:"path"`
		Delta int64    `json:"delta"`
	}{
		Name:  name,
		Path:  path,
		Delta: delta,
	}
	response, err := c.post("/api/incr", req)
	if err != nil {
		return 0, err
	}
	var result struct {
		Value int64 `json:"value"`
	}
	err = json.Unmarshal(response, &result)
	if err != nil {
		if c.error_log != nil {
			c.error_log.Printf("incr error: [%s] : [%s]", string(response), err.Error())
		}
	}
	return result.Value, err
}

type TableStat struct {
	Name   string        `json:"name"`
	Handle nested.Handle `json:"handle"`
	Len    int           `json:"len"`
	Cap    int           `json:"cap"`
}

// Stats lists the named root tables and the arena's total table count.
func (c *Client) Stats() ([]TableStat, int, error) {
	response, err := c.get("/api/stats")
	if err != nil {
		return nil, 0, err
	}
	var result struct {
		Tables []TableStat `json:"tables"`
		Arena  int         `json:"arena"`
	}
	err = json.Unmarshal(response, &result)
	if err != nil {
		if c.error_log != nil {
			c.error_log.Printf("stats error: [%s] : [%s]", string(response), err.Error())
		}
	}
	return result.Tables, result.Arena, err
}
