package remote_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/librarydesk/core"
	"github.com/AntonStoeckl/librarydesk/shell/remote"
	. "github.com/AntonStoeckl/librarydesk/testutil/helper" //nolint:revive
)

func Test_NewClient_RejectsInvalidOptions(t *testing.T) {
	_, err := remote.NewClient("")
	assert.ErrorIs(t, err, remote.ErrEmptyBaseURL)

	_, err = remote.NewClient(remote.DefaultBaseURL, remote.WithHTTPClient(nil))
	assert.ErrorIs(t, err, remote.ErrNilHTTPClient)

	_, err = remote.NewClient(remote.DefaultBaseURL, remote.WithTimeout(0))
	assert.ErrorIs(t, err, remote.ErrNonPositiveTimeout)

	_, err = remote.NewClient(remote.DefaultBaseURL, remote.WithSOCKS5Proxy(" "))
	assert.ErrorIs(t, err, remote.ErrEmptyProxyAddress)
}

func Test_NewClient_WithSOCKS5Proxy(t *testing.T) {
	client, err := remote.NewClient(remote.DefaultBaseURL, remote.WithSOCKS5Proxy("127.0.0.1:9050"))

	assert.NoError(t, err, "Should build a proxied client without dialing")
	assert.Equal(t, remote.DefaultBaseURL, client.BaseURL())
}

func Test_Client_ListBooks_SendsQueryAndDecodesPage(t *testing.T) {
	// arrange
	var gotPath, gotQuery, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotRequestID = r.Header.Get("X-Request-ID")
		writeJSON(w, http.StatusOK, `{
			"books": [{
				"_id": "b1", "isbn": "978-0-13-468599-1", "title": "Go", "author": "Pike",
				"price": 12.5, "totalCopies": 3, "quantity": 2, "categories": ["c1"],
				"isDeleted": false, "createdAt": "2025-01-02T03:04:05.678Z"
			}],
			"totalBooks": 9, "page": 2, "limit": 8, "totalPages": 2
		}`)
	}))
	defer server.Close()

	client := newClient(t, server)
	query := url.Values{"page": {"2"}, "limit": {"8"}}

	// act
	page, err := client.ListBooks(context.Background(), query)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/book/all", gotPath)
	assert.Equal(t, "limit=8&page=2", gotQuery)
	assert.NotEmpty(t, gotRequestID, "Should tag every request with a request id")
	assert.Equal(t, 9, page.TotalBooks)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Books, 1)

	book := page.Books[0]
	assert.Equal(t, "b1", book.ID)
	assert.Equal(t, "9780134685991", book.ISBN)
	assert.True(t, decimal.RequireFromString("12.5").Equal(book.Price))
	assert.Equal(t, 1, book.OnLoan())
	assert.Equal(t, []string{"c1"}, book.CategoryIDs)
}

func Test_Client_LookupByISBN(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/book/isbn/9780134685991" {
			writeJSON(w, http.StatusOK, `{"exists": true, "book": {"title": "Go", "author": "Pike", "price": "9.99"}}`)
			return
		}

		if r.URL.Path == "/api/v1/book/isbn/9781098100131" {
			writeJSON(w, http.StatusOK, `{"exists": true}`)
			return
		}

		writeJSON(w, http.StatusOK, `{"exists": false}`)
	}))
	defer server.Close()

	client := newClient(t, server)

	found, err := client.LookupByISBN(context.Background(), "9780134685991")
	require.NoError(t, err)
	assert.True(t, found.Exists)
	require.NotNil(t, found.Book)
	assert.Equal(t, "Go", found.Book.Title)
	assert.True(t, decimal.RequireFromString("9.99").Equal(found.Book.Price))

	missing, err := client.LookupByISBN(context.Background(), "1234")
	require.NoError(t, err)
	assert.False(t, missing.Exists)
	assert.Nil(t, missing.Book)

	bare, err := client.LookupByISBN(context.Background(), "9781098100131")
	require.NoError(t, err)
	assert.False(t, bare.Exists, "Should treat an answer without book metadata as unknown")
	assert.Nil(t, bare.Book)
}

func Test_Client_SubmitBookMutation_CopiesOnlyOmitsMetadata(t *testing.T) {
	// arrange
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body = decodeBody(t, r)
		writeJSON(w, http.StatusCreated, `{"message": "copies added"}`)
	}))
	defer server.Close()

	client := newClient(t, server)

	// act
	message, err := client.SubmitBookMutation(context.Background(), core.BookMutationPayload{
		Intent:   core.IntentAddCopies,
		ISBN:     "9780134685991",
		Title:    "ignored",
		Quantity: 2,
	})

	// assert
	require.NoError(t, err)
	assert.Equal(t, "copies added", message)
	assert.Equal(t, "add_copies", body["intent"])
	assert.Equal(t, "9780134685991", body["isbn"])
	assert.EqualValues(t, 2, body["quantity"])
	assert.NotContains(t, body, "title")
	assert.NotContains(t, body, "author")
	assert.NotContains(t, body, "price")
	assert.NotContains(t, body, "description")
}

func Test_Client_SubmitBookMutation_FullMetadata(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body = decodeBody(t, r)
		writeJSON(w, http.StatusCreated, `{"message": "book added"}`)
	}))
	defer server.Close()

	client := newClient(t, server)

	_, err := client.SubmitBookMutation(context.Background(), core.BookMutationPayload{
		Intent:   core.IntentCreateTitle,
		ISBN:     "",
		Title:    "Go",
		Author:   "Pike",
		Price:    decimal.RequireFromString("19.90"),
		Quantity: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, "create_title", body["intent"])
	assert.Equal(t, "", body["isbn"])
	assert.Equal(t, "Go", body["title"])
	assert.Equal(t, "Pike", body["author"])
	assert.EqualValues(t, 19.9, body["price"], "Should send the price as a JSON number")
	assert.Contains(t, body, "description")
}

func Test_Client_SetDeletionState_RoutesByState(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		paths = append(paths, r.URL.Path)
		writeJSON(w, http.StatusOK, `{"message": "ok"}`)
	}))
	defer server.Close()

	client := newClient(t, server)

	_, err := client.SetDeletionState(context.Background(), core.DeletionMutation{BookID: "b1", State: core.DeletionStateDeleted})
	require.NoError(t, err)
	_, err = client.SetDeletionState(context.Background(), core.DeletionMutation{BookID: "b1", State: core.DeletionStateActive})
	require.NoError(t, err)

	assert.Equal(t, []string{"/api/v1/book/admin/delete/b1", "/api/v1/book/admin/restore/b1"}, paths)
}

func Test_Client_SubmitBorrowMutation(t *testing.T) {
	type call struct{ method, path, email string }
	var calls []call
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		email, _ := body["email"].(string)
		calls = append(calls, call{r.Method, r.URL.Path, email})
		writeJSON(w, http.StatusOK, `{"message": "done"}`)
	}))
	defer server.Close()

	client := newClient(t, server)

	_, err := client.SubmitBorrowMutation(context.Background(),
		core.BorrowMutation{Kind: core.BorrowKindBorrow, UserEmail: "a@b.c", BookID: "b1"})
	require.NoError(t, err)
	_, err = client.SubmitBorrowMutation(context.Background(),
		core.BorrowMutation{Kind: core.BorrowKindReturn, UserEmail: "a@b.c", BookID: "b1"})
	require.NoError(t, err)

	assert.Equal(t, []call{
		{http.MethodPost, "/api/v1/borrow/record-borrow-book/b1", "a@b.c"},
		{http.MethodPut, "/api/v1/borrow/return-borrowed-book/b1", "a@b.c"},
	}, calls)
}

func Test_Client_ListBorrowRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/borrow/borrowed-books-by-users":
			writeJSON(w, http.StatusOK, `{"borrowedBooks": [
				{"_id": "r1", "book": "b1", "user": {"id": "u1", "email": "a@b.c"},
				 "borrowedDate": "2025-01-01T00:00:00Z", "dueDate": "2025-01-08T00:00:00Z",
				 "returned": false, "price": 3}
			]}`)
		case "/api/v1/borrow/my-borrowed-books":
			writeJSON(w, http.StatusOK, `{"borrowedBooks": [
				{"_id": "r2", "book": "b2", "user": {"id": "u1", "email": "a@b.c"},
				 "borrowedDate": "2025-01-01T00:00:00Z", "dueDate": "2025-01-08T00:00:00Z",
				 "returnDate": "2025-01-05T00:00:00Z", "returned": true, "price": 3}
			]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newClient(t, server)

	all, err := client.ListBorrowRecords(context.Background(), core.BorrowScopeAll)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "a@b.c", all[0].UserEmail)
	assert.Nil(t, all[0].ReturnDate)
	assert.True(t, all[0].IsOutstanding())

	mine, err := client.ListBorrowRecords(context.Background(), core.BorrowScopeMine)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].ReturnDate)
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), *mine[0].ReturnDate)
}

func Test_Client_ListCategories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"categories": [{"_id": "c1", "name": "Fiction"}]}`)
	}))
	defer server.Close()

	categories, err := newClient(t, server).ListCategories(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []core.Category{{ID: "c1", Name: "Fiction"}}, categories)
}

func Test_Client_MapsClientErrorsToConflict(t *testing.T) {
	// arrange
	logger := NewContextualLoggerSpy(true)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"message": "Book has outstanding loans"}`)
	}))
	defer server.Close()

	client, err := remote.NewClient(server.URL+"/api/v1", remote.WithContextualLogging(logger))
	require.NoError(t, err)

	// act
	_, err = client.SetDeletionState(context.Background(), core.DeletionMutation{BookID: "b1", State: core.DeletionStateDeleted})

	// assert
	assert.ErrorIs(t, err, core.ErrConflict)
	assert.NotErrorIs(t, err, core.ErrTransport)
	assert.Equal(t, "Book has outstanding loans", core.UserMessage(err))
	assert.True(t, logger.HasWarnLog("remote request failed"), "Should log the failed request")
}

func Test_Client_MapsServerErrorsToTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newClient(t, server).ListCategories(context.Background())

	assert.ErrorIs(t, err, core.ErrTransport)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), core.UserMessage(err))
}

func Test_Client_MapsUndecodableBodyToTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"books": [`)
	}))
	defer server.Close()

	_, err := newClient(t, server).ListBooks(context.Background(), nil)

	assert.ErrorIs(t, err, core.ErrTransport)
}

func Test_Client_MapsUnreachableServiceToTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client := newClient(t, server)
	server.Close()

	_, err := client.ListCategories(context.Background())

	assert.ErrorIs(t, err, core.ErrTransport)
}

func Test_Client_KeepsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"categories": []}`)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newClient(t, server).ListCategories(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, core.ErrTransport)
}

func Test_Client_SendsAuthToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, `{"categories": []}`)
	}))
	defer server.Close()

	client, err := remote.NewClient(server.URL, remote.WithAuthToken("secret"))
	require.NoError(t, err)

	_, err = client.ListCategories(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth)
}

// Test helper functions

func newClient(t *testing.T, server *httptest.Server) *remote.Client {
	t.Helper()

	client, err := remote.NewClient(server.URL+"/api/v1", remote.WithTimeout(2*time.Second))
	require.NoError(t, err, "error in arranging test client")

	return client
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()

	body := map[string]any{}
	assert.NoError(t, jsoniter.NewDecoder(r.Body).Decode(&body), "request body should be valid JSON")

	return body
}
