package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerAddress string
	FrontendURL   string

	MongoURI string
	MongoDB  string

	JWTSecret     string
	JWTExpiration time.Duration

	// DataDir backs the JSON player store used when MONGODB_URI is unset.
	DataDir   string
	UploadDir string

	MaxUploadSizeMB int64

	// Rate limit applied to /api routes.
	RateLimitRequests int
	RateLimitWindow   time.Duration

	SendGridAPIKey string
	OTPFromEmail   string
	OTPTTL         time.Duration

	Card CardConfig
}

// CardConfig locates every asset the card renderer may use and where the
// finished documents go. All paths are explicit; nothing is resolved from
// the process working directory at draw time.
type CardConfig struct {
	AssetDir  string
	LogoLeft  string
	LogoRight string
	Banner    string
	FontFile  string
	Title     string
	OutputDir string
	// PhotoBaseDir anchors repository-relative profile photo references
	// (those beginning with "/").
	PhotoBaseDir string
}

func Load() *Config {
	return &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		FrontendURL:   getEnv("FRONTEND_URL", "*"),

		MongoURI: getEnv("MONGODB_URI", ""),
		MongoDB:  getEnv("MONGODB_DB", "parasports"),

		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTExpiration: 24 * time.Hour,

		DataDir:   getEnv("DATA_DIR", "./data"),
		UploadDir: getEnv("UPLOAD_DIR", "./uploads"),

		MaxUploadSizeMB: 10,

		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   15 * time.Minute,

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		OTPFromEmail:   getEnv("OTP_FROM_EMAIL", "noreply@parasportsgujarat.in"),
		OTPTTL:         5 * time.Minute,

		Card: CardConfig{
			AssetDir:     getEnv("ASSET_DIR", "./assets"),
			LogoLeft:     getEnv("CARD_LOGO_LEFT", "logo1.png"),
			LogoRight:    getEnv("CARD_LOGO_RIGHT", "logo2.png"),
			Banner:       getEnv("CARD_BANNER", "graditext.png"),
			FontFile:     getEnv("CARD_FONT", "./fonts/NotoSansGujarati-Regular.ttf"),
			Title:        getEnv("CARD_TITLE", "PARA SPORTS ASSOCIATION OF GUJARAT"),
			OutputDir:    getEnv("IDCARD_DIR", "./idcards"),
			PhotoBaseDir: getEnv("PHOTO_BASE_DIR", "."),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
