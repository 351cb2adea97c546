package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"30"`

	// Auth
	JWTSecret string `envconfig:"JWT_SECRET"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes

	// Storage. Backend is "local" or "s3".
	StorageBackend  string `envconfig:"STORAGE_BACKEND" default:"local"`
	StorageDir      string `envconfig:"STORAGE_DIR" default:"storage"`
	StoragePublic   string `envconfig:"STORAGE_PUBLIC_PREFIX" default:"/files/"`
	S3Bucket        string `envconfig:"S3_BUCKET"`
	S3Region        string `envconfig:"S3_REGION"`
	S3BaseEndpoint  string `envconfig:"S3_BASE_ENDPOINT"`
	S3AccessKey     string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey     string `envconfig:"S3_SECRET_KEY"`
	LetterheadKey   string `envconfig:"LETTERHEAD_KEY"`
	SignerName      string `envconfig:"LETTER_SIGNER_NAME" default:"PAZ OWUSU BOAKYE (MRS.)"`
	SignerTitle     string `envconfig:"LETTER_SIGNER_TITLE" default:"DEPUTY DIRECTOR, HUMAN RESOURCE"`
	OrgName         string `envconfig:"ORG_NAME" default:"GHANA COCOA BOARD"`
	OrgEmail        string `envconfig:"ORG_EMAIL" default:"cocobod@cocobod.gh"`
	OrgPhonePrimary string `envconfig:"ORG_PHONE_PRIMARY" default:"0302 - 661 - 752"`
	OrgPhoneAlt     string `envconfig:"ORG_PHONE_ALT" default:"0302 - 661 - 872"`

	// Mailer
	MailerHost     string `envconfig:"MAILER_HOST"`
	MailerPort     int    `envconfig:"MAILER_PORT" default:"587"`
	MailerUser     string `envconfig:"MAILER_USER"`
	MailerPassword string `envconfig:"MAILER_PASSWORD"`
	MailerFrom     string `envconfig:"MAILER_FROM_ADDRESS"`
}
