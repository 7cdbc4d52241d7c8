package recipebuilder

// StoreConfig selects and configures the key-value backend behind the recipe book.
type StoreConfig struct {
	Backend       string `env:"RECIPE_STORE_BACKEND,default=file"`
	Key           string `env:"RECIPE_STORE_KEY,default=saved-recipes"`
	Dir           string `env:"RECIPE_STORE_DIR,default=artifacts/store"`
	S3Bucket      string `env:"RECIPE_STORE_S3_BUCKET"`
	S3Prefix      string `env:"RECIPE_STORE_S3_PREFIX,default=recipes/"`
	RedisAddr     string `env:"RECIPE_STORE_REDIS_ADDR,default=localhost:6379"`
	RedisPassword string `env:"RECIPE_STORE_REDIS_PASSWORD"`
	RedisDB       int    `env:"RECIPE_STORE_REDIS_DB,default=0"`
}

type AppConfig struct {
	CatalogPath     string `env:"CATALOG_PATH,default=artifacts/ingredients.json"`
	CatalogS3Key    string `env:"CATALOG_S3_KEY,default=ingredients.json"`
	SlackWebhookURL string `env:"SLACK_WEBHOOK_URL"`
	SlackChannel    string `env:"SLACK_CHANNEL,default=#recipes"`
	EventLogPath    string `env:"EVENT_LOG_PATH"`
	OtelEnabled     bool   `env:"OTEL_ENABLED,default=false"`
}
