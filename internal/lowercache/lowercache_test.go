package lowercache_test

import (
	"testing"

	"sandpit/internal/erase"
	"sandpit/internal/lowercache"
)

func openTestCache(t *testing.T) *lowercache.Cache {
	t.Helper()
	c, err := lowercache.OpenAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	return c
}

func TestKey_Distinguishes(t *testing.T) {
	a := lowercache.Key("let x = 1", erase.RulesetErase)
	b := lowercache.Key("let x = 2", erase.RulesetErase)
	if a == b {
		t.Error("different sources must produce different keys")
	}

	// Один текст под разными правилами — разные записи
	c := lowercache.Key("let x = 1", erase.RulesetPassthrough)
	if a == c {
		t.Error("ruleset must participate in the key")
	}

	if a != lowercache.Key("let x = 1", erase.RulesetErase) {
		t.Error("key must be deterministic")
	}
}

func TestPutGet_RoundTrip(t *testing.T) {
	c := openTestCache(t)
	key := lowercache.Key("let x: number = 1", erase.RulesetErase)

	payload := &lowercache.Payload{
		Ruleset: uint8(erase.RulesetErase),
		Lowered: "let x           = 1",
	}
	if err := c.Put(key, payload); err != nil {
		t.Fatalf("Put: %v", err)
	}

	lowered, hit, err := c.Get(key, erase.RulesetErase)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit || lowered != payload.Lowered {
		t.Errorf("round trip lost the payload: hit=%v lowered=%q", hit, lowered)
	}
}

func TestGet_Miss(t *testing.T) {
	c := openTestCache(t)
	if _, hit, err := c.Get(lowercache.Key("absent", erase.RulesetErase), erase.RulesetErase); err != nil || hit {
		t.Errorf("expected a clean miss, got hit=%v err=%v", hit, err)
	}
}

func TestGet_RulesetMismatchIsMiss(t *testing.T) {
	c := openTestCache(t)
	key := lowercache.Key("x", erase.RulesetErase)
	if err := c.Put(key, &lowercache.Payload{Ruleset: uint8(erase.RulesetErase), Lowered: "x"}); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(key, erase.RulesetPassthrough); err != nil || hit {
		t.Errorf("foreign ruleset entry must be a miss, got hit=%v err=%v", hit, err)
	}
}

func TestNilCache_Noop(t *testing.T) {
	var c *lowercache.Cache
	if err := c.Put(lowercache.Key("x", erase.RulesetErase), &lowercache.Payload{}); err != nil {
		t.Errorf("nil cache Put must be a no-op: %v", err)
	}
	if _, hit, err := c.Get(lowercache.Key("x", erase.RulesetErase), erase.RulesetErase); err != nil || hit {
		t.Errorf("nil cache Get must miss cleanly")
	}
}

func TestDropAll(t *testing.T) {
	c := openTestCache(t)
	key := lowercache.Key("x", erase.RulesetErase)
	if err := c.Put(key, &lowercache.Payload{Lowered: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, hit, _ := c.Get(key, erase.RulesetErase); hit {
		t.Error("entry survived DropAll")
	}
}
