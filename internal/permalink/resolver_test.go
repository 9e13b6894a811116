package permalink

import "testing"

func TestResolverBuildsPostURL(t *testing.T) {
	resolver := NewResolver(Config{BaseURL: "https://blog.example.com/"})

	got, err := resolver.Resolve("prisma-pgbouncer")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://blog.example.com/posts/prisma-pgbouncer" {
		t.Fatalf("unexpected permalink %q", got)
	}
}

func TestResolverCustomPath(t *testing.T) {
	resolver := NewResolver(Config{
		BaseURL: "https://blog.example.com",
		Path:    "/articles/:slug",
	})

	got, err := resolver.Resolve("swagger-middleware")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://blog.example.com/articles/swagger-middleware" {
		t.Fatalf("unexpected permalink %q", got)
	}
}

func TestResolverRequiresSlug(t *testing.T) {
	resolver := NewResolver(Config{BaseURL: "https://blog.example.com"})
	if _, err := resolver.Resolve(" "); err == nil {
		t.Fatal("expected error for blank slug")
	}
}

func TestNilResolverReturnsEmpty(t *testing.T) {
	var resolver *Resolver
	got, err := resolver.Resolve("anything")
	if err != nil || got != "" {
		t.Fatalf("expected empty result from nil resolver, got %q %v", got, err)
	}
}
