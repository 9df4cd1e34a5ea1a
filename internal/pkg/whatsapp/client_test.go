package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRecipient(t *testing.T) {
	cases := map[string]string{
		"081234567890":                 "6281234567890@s.whatsapp.net",
		"+62 812-3456-7890":            "6281234567890@s.whatsapp.net",
		"6281234567890@s.whatsapp.net": "6281234567890@s.whatsapp.net",
		"120363-1612@g.us":             "120363-1612@g.us",
		"":                             "",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatRecipient(in), in)
	}
}

func TestClientSend(t *testing.T) {
	var got sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/send/message", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second)
	err := c.Send(context.Background(), "0812345678901", "halo")
	require.NoError(t, err)
	assert.Equal(t, "62812345678901@s.whatsapp.net", got.Phone)
	assert.Equal(t, "halo", got.Message)
}

func TestClientSendNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, time.Second).Send(context.Background(), "0812345678901", "halo")
	assert.ErrorIs(t, err, ErrSendFailed)
}

func TestClientSendEmptyRecipient(t *testing.T) {
	err := NewClient("http://unused", time.Second).Send(context.Background(), "", "halo")
	assert.ErrorIs(t, err, ErrEmptyRecipient)
}

func TestClientStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/info", r.URL.Path)
		_, _ = w.Write([]byte(`{"results":{"verified_name":"","push_name":"Sekolah Mode","phone":"628111"}}`))
	}))
	defer srv.Close()

	st := NewClient(srv.URL, time.Second).Status(context.Background())
	assert.True(t, st.Connected)
	assert.Equal(t, "active", st.Status)
	assert.Equal(t, "Sekolah Mode", st.Name)
}

func TestClientStatusDisconnected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	st := NewClient(srv.URL, time.Second).Status(context.Background())
	assert.False(t, st.Connected)
	assert.Equal(t, "disconnected", st.Status)
}
