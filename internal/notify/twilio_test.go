package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifySendsWhatsAppForm(t *testing.T) {
	var gotPath, gotFrom, gotTo, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "secret", pass)
		require.NoError(t, r.ParseForm())
		gotPath = r.URL.Path
		gotFrom = r.PostForm.Get("From")
		gotTo = r.PostForm.Get("To")
		gotBody = r.PostForm.Get("Body")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	n := NewTwilio(TwilioParams{
		AccountSID: "AC123",
		AuthToken:  "secret",
		From:       "+14155238886",
		To:         "+5511999999999",
		BaseURL:    srv.URL,
	})
	err := n.Notify(context.Background(), "🚀 COMPRA: BTCUSDT a 65000.00")
	require.NoError(t, err)
	assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", gotPath)
	assert.Equal(t, "whatsapp:+14155238886", gotFrom)
	assert.Equal(t, "whatsapp:+5511999999999", gotTo)
	assert.Equal(t, "🚀 COMPRA: BTCUSDT a 65000.00", gotBody)
}

func TestNotifySurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":20003,"message":"Authenticate"}`))
	}))
	defer srv.Close()

	n := NewTwilio(TwilioParams{AccountSID: "AC123", AuthToken: "bad", From: "+1", To: "+2", BaseURL: srv.URL})
	err := n.Notify(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestNoopNeverFails(t *testing.T) {
	assert.NoError(t, Noop{}.Notify(context.Background(), "anything"))
}
