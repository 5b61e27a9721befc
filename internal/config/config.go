package config

import (
	"os"
	"strconv"
)

type Config struct {
	// HTTPAddr is the listen address. PORT is honored for parity with the
	// usual PaaS convention and takes precedence.
	HTTPAddr string

	// DataDir holds the embedded order database.
	DataDir string

	// LedgerPath is the SQLite audit ledger file. Empty disables the ledger.
	LedgerPath string

	// RedisAddr enables the Redis idempotency cache. Empty falls back to the
	// in-process cache.
	RedisAddr string

	// ProductsFile is the read-only catalog document.
	ProductsFile string

	ServiceName string

	// Site bootstrap served at /api/config.
	SiteName      string
	UPIID         string
	AdvanceAmount int64
}

func Load() Config {
	addr := getenv("HTTP_ADDR", ":3000")
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	return Config{
		HTTPAddr:      addr,
		DataDir:       getenv("DATA_DIR", "./data/orders"),
		LedgerPath:    getenv("LEDGER_PATH", "./data/ledger.db"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		ProductsFile:  getenv("PRODUCTS_FILE", "./data/products.json"),
		ServiceName:   getenv("SERVICE_NAME", "storefront"),
		SiteName:      getenv("SITE_NAME", "Apple Store"),
		UPIID:         getenv("UPI_ID", "store@okaxis"),
		AdvanceAmount: getenvInt64("ADVANCE_AMOUNT", 499),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt64(k string, def int64) int64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}
