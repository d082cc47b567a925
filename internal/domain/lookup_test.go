package domain

import (
	"errors"
	"net/http"
	"testing"
)

func TestLookup_States(t *testing.T) {
	found := Found(&Tag{Slug: "seo-tips"})
	if !found.Found() || found.NotFound() || found.Unavailable() {
		t.Fatalf("Found() state = %v", found.Status)
	}
	if err := found.Error("tag"); err != nil {
		t.Fatalf("Error() on found lookup = %v, want nil", err)
	}

	missing := NotFound[Tag]()
	if missing.Found() || !missing.NotFound() {
		t.Fatalf("NotFound() state = %v", missing.Status)
	}
	if got := HTTPStatusCode(missing.Error("tag")); got != http.StatusNotFound {
		t.Fatalf("not found status = %d, want 404", got)
	}

	cause := errors.New("dial tcp: connection refused")
	down := Unavailable[Tag](cause)
	if !down.Unavailable() || down.Found() {
		t.Fatalf("Unavailable() state = %v", down.Status)
	}
	err := down.Error("tag")
	if got := HTTPStatusCode(err); got != http.StatusServiceUnavailable {
		t.Fatalf("unavailable status = %d, want 503", got)
	}
	if !errors.Is(err, cause) {
		t.Fatal("unavailable error should wrap the cause")
	}
}

func TestFound_NilItemIsNotFound(t *testing.T) {
	l := Found[Article](nil)
	if !l.NotFound() {
		t.Fatalf("Found(nil) status = %v, want not_found", l.Status)
	}
}

func TestLookupStatus_String(t *testing.T) {
	if LookupFound.String() != "found" || LookupNotFound.String() != "not_found" || LookupUnavailable.String() != "unavailable" {
		t.Fatal("unexpected LookupStatus names")
	}
}
