package fetch_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/SARL-TKHA/HttpClientBuilder/client"
	"github.com/SARL-TKHA/HttpClientBuilder/fetch"
)

func ExampleService_Text() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "hello from the server")
	}))
	defer ts.Close()

	c, _ := client.Build(client.WithBaseAddress(ts.URL))
	svc, _ := fetch.New(c)

	body, err := svc.Text(context.Background(), "/greeting")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(body)
	// Output: hello from the server
}

func ExampleService_Bytes() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "raw bytes")
	}))
	defer ts.Close()

	c, _ := client.Build(client.WithBaseAddress(ts.URL))
	svc, _ := fetch.New(c)

	body, err := svc.Bytes(context.Background(), "/blob")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(len(body))
	// Output: 9
}

func ExampleService_Download() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "file payload")
	}))
	defer ts.Close()

	c, _ := client.Build(client.WithBaseAddress(ts.URL))
	svc, _ := fetch.New(c)

	dest := filepath.Join(os.TempDir(), "hcb-fetch-example.bin")
	defer os.Remove(dest)

	if err := svc.Download(context.Background(), "/dist.bin", dest); err != nil {
		fmt.Println("error:", err)
		return
	}

	data, _ := os.ReadFile(dest)
	fmt.Println(string(data))
	// Output: file payload
}

func ExampleService_DownloadAsync() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "async payload")
	}))
	defer ts.Close()

	c, _ := client.Build(client.WithBaseAddress(ts.URL))
	svc, _ := fetch.New(c)

	dest := filepath.Join(os.TempDir(), "hcb-fetch-async-example.bin")
	defer os.Remove(dest)

	r, err := svc.DownloadAsync(context.Background(), "/dist.bin", dest)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if err := r.Err(); err != nil {
		fmt.Println("download error:", err)
		return
	}

	data, _ := os.ReadFile(dest)
	fmt.Println(string(data))
	// Output: async payload
}
