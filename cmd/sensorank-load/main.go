// Catalog ingest tool for sensorank. Reads a sensors CSV, embeds each
// sensor's search text through the configured provider, and writes the catalog
// to Redis. The API server loads the result as its in-memory snapshot on boot.
//
// Usage:
//
//	sensorank-load -csv sensors.csv
//	sensorank-load -csv sensors.csv -clear
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sensorank/internal/config"
	dbRedis "github.com/kailas-cloud/sensorank/internal/db/redis"
	"github.com/kailas-cloud/sensorank/internal/domain/item"
	logpkg "github.com/kailas-cloud/sensorank/internal/logger"
	catalogrepo "github.com/kailas-cloud/sensorank/internal/repository/catalog"
	openaiEmb "github.com/kailas-cloud/sensorank/internal/transport/openai"
)

type flags struct {
	csvPath   string
	batchSize int
	clear     bool
}

func parseFlags() flags {
	f := flags{}
	flag.StringVar(&f.csvPath, "csv", "sensors.csv", "path to the sensor catalog CSV")
	flag.IntVar(&f.batchSize, "batch-size", 64, "sensors per embedding API call")
	flag.BoolVar(&f.clear, "clear", false, "delete existing catalog entries before loading")
	flag.Parse()
	return f
}

func main() {
	f := parseFlags()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(
		context.Background(), syscall.SIGTERM, syscall.SIGINT,
	)
	defer cancel()

	if err := run(ctx, f, cfg, logger); err != nil {
		logger.Fatal("Load failed", zap.Error(err))
	}
}

func run(ctx context.Context, f flags, cfg config.Config, logger *zap.Logger) error {
	start := time.Now()

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	embedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})

	catalog := catalogrepo.New(store)

	if f.clear {
		if err := catalog.Clear(ctx); err != nil {
			return fmt.Errorf("clear catalog: %w", err)
		}
		logger.Info("Cleared existing catalog")
	}

	rows, skipped, err := readCSV(f.csvPath, logger)
	if err != nil {
		return err
	}
	logger.Info("CSV parsed",
		zap.Int("sensors", len(rows)),
		zap.Int("skipped", skipped),
	)

	var loaded int
	for off := 0; off < len(rows); off += f.batchSize {
		end := off + f.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[off:end]

		texts := make([]string, len(batch))
		for i, row := range batch {
			texts[i] = row.searchText()
		}

		res, err := embedder.BatchEmbed(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed batch at offset %d: %w", off, err)
		}
		if len(res.Embeddings) != len(batch) {
			return fmt.Errorf("embed batch at offset %d: got %d vectors for %d sensors",
				off, len(res.Embeddings), len(batch))
		}

		items := make([]item.Item, 0, len(batch))
		for i, row := range batch {
			it, err := item.New(
				row.id, row.name, row.sensorType,
				row.modules, row.envTags, res.Embeddings[i], row.attrs,
			)
			if err != nil {
				logger.Warn("Skipping invalid sensor",
					zap.String("id", row.id), zap.Error(err))
				continue
			}
			items = append(items, it)
		}

		if err := catalog.Put(ctx, items); err != nil {
			return fmt.Errorf("store batch at offset %d: %w", off, err)
		}
		loaded += len(items)
		logger.Info("Batch stored",
			zap.Int("loaded", loaded),
			zap.Int("total", len(rows)),
			zap.Int("tokens", res.TotalTokens),
		)
	}

	logger.Info("Catalog load complete",
		zap.Int("sensors", loaded),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// sensorRow is one parsed CSV record before embedding.
type sensorRow struct {
	id         string
	name       string
	sensorType string
	modules    []string
	envTags    []string
	attrs      item.Attributes
}

// searchText builds the text that gets embedded for semantic matching.
// Name, type, and module tags are repeated so they dominate the free-form
// feature description in the resulting vector.
func (r *sensorRow) searchText() string {
	var parts []string
	for i := 0; i < 5; i++ {
		parts = append(parts, r.name)
	}
	for i := 0; i < 4; i++ {
		parts = append(parts, r.sensorType)
	}
	for _, m := range r.modules {
		for i := 0; i < 4; i++ {
			parts = append(parts, m)
		}
	}
	if r.attrs.Features != "" {
		parts = append(parts, r.attrs.Features)
	}
	parts = append(parts, r.envTags...)
	return strings.Join(parts, " ")
}

// readCSV parses the catalog file. Malformed rows are skipped with a warning
// rather than aborting the whole load.
func readCSV(path string, logger *zap.Logger) ([]sensorRow, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"name", "type"} {
		if _, ok := col[required]; !ok {
			return nil, 0, fmt.Errorf("csv missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []sensorRow
	var skipped int
	line := 1
	for {
		record, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Warn("Skipping malformed row", zap.Int("line", line), zap.Error(err))
			skipped++
			continue
		}

		name := field(record, "name")
		sensorType := field(record, "type")
		if name == "" || sensorType == "" {
			logger.Warn("Skipping row without name or type", zap.Int("line", line))
			skipped++
			continue
		}

		id := field(record, "id")
		if id == "" {
			id = slugify(name)
		}

		ipRating := field(record, "ip_rating")
		operatingTemp := field(record, "operating_temp")

		envTags := parseTagList(field(record, "env_tags"))
		if len(envTags) == 0 {
			envTags = deriveEnvTags(ipRating, operatingTemp)
		}

		power, _ := strconv.ParseFloat(field(record, "power_consumption"), 64)

		rows = append(rows, sensorRow{
			id:         id,
			name:       name,
			sensorType: sensorType,
			modules:    parseTagList(field(record, "compatible_modules")),
			envTags:    envTags,
			attrs: item.Attributes{
				Features:         field(record, "features"),
				IPRating:         ipRating,
				PowerConsumption: power,
				OperatingTemp:    operatingTemp,
				MeasureRange:     field(record, "range"),
				Precision:        field(record, "precision"),
			},
		})
	}
	return rows, skipped, nil
}

// parseTagList handles both plain comma-separated lists and the
// `{"a","b"}` set literal form some catalog exports use.
func parseTagList(raw string) []string {
	cleaned := strings.Trim(raw, "{}")
	cleaned = strings.NewReplacer(`"`, "", `'`, "").Replace(cleaned)
	if cleaned == "" {
		return nil
	}
	var tags []string
	for _, part := range strings.Split(cleaned, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// deriveEnvTags infers operating-condition tags from IP rating and
// temperature range when the CSV carries no explicit env_tags column.
func deriveEnvTags(ipRating, operatingTemp string) []string {
	var tags []string

	ip := strings.ToUpper(ipRating)
	switch {
	case strings.Contains(ip, "IP65"), strings.Contains(ip, "IP66"),
		strings.Contains(ip, "IP67"), strings.Contains(ip, "IP68"):
		tags = append(tags, "outdoor", "waterproof", "dustproof")
	case strings.Contains(ip, "IPX7"), strings.Contains(ip, "IPX8"):
		tags = append(tags, "waterproof")
	}

	if minT, maxT, ok := parseTempRange(operatingTemp); ok {
		if minT <= -20 {
			tags = append(tags, "low-temperature")
		}
		if maxT >= 85 {
			tags = append(tags, "high-temperature", "industrial")
		}
		if minT >= 0 && maxT <= 50 {
			tags = append(tags, "indoor")
		}
	}
	return tags
}

// parseTempRange extracts min/max from strings like "-20~60", "-40 to 85" or
// "0-50". Returns ok=false when fewer than two numbers are present.
func parseTempRange(raw string) (minT, maxT int, ok bool) {
	var nums []int
	i := 0
	for i < len(raw) {
		c := raw[i]
		if c == '-' || (c >= '0' && c <= '9') {
			j := i
			if c == '-' {
				j++
			}
			for j < len(raw) && raw[j] >= '0' && raw[j] <= '9' {
				j++
			}
			if j > i && raw[i:j] != "-" {
				if n, err := strconv.Atoi(raw[i:j]); err == nil {
					nums = append(nums, n)
				}
			}
			i = j
			continue
		}
		i++
	}
	if len(nums) < 2 {
		return 0, 0, false
	}
	return nums[0], nums[1], true
}

// slugify turns a display name into a stable catalog id.
func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
