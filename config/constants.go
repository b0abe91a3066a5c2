package constants

// Service identity
const (
	SERVICE_NAME = "pistat"
	USER_AGENT   = "piStat/1.0"
)

// Network defaults
const (
	DEFAULT_HOST = "0.0.0.0"
	DEFAULT_PORT = 8585
)

// Snapshot cache defaults
const (
	DEFAULT_CACHE_SECONDS = 2 // /stats responses younger than this are reused
)

// Rate limiter defaults
const (
	DEFAULT_RATELIMIT_ENABLED        = true
	DEFAULT_RATELIMIT_REQUESTS       = 30
	DEFAULT_RATELIMIT_WINDOW_SECONDS = 60
)

// Logging defaults
const (
	DEFAULT_LOG_LEVEL = "info"
)

// Environment variable prefix (PISTAT_PORT, PISTAT_HOST, PISTAT_CACHE_SECONDS, ...)
const (
	ENV_PREFIX = "PISTAT"
)

// Config file lookup
const (
	CONFIG_FILE_NAME = "config"
	CONFIG_DIR       = "/etc/pistat"
)

// Hardware utility commands used by collectors
const (
	VCGENCMD_BIN = "vcgencmd"
	IWCONFIG_BIN = "iwconfig"
	LSUSB_BIN    = "lsusb"
)

// Well-known procfs/sysfs paths read by collectors
const (
	DEVICE_TREE_MODEL_PATH = "/proc/device-tree/model"
	CPUINFO_PATH           = "/proc/cpuinfo"
	THERMAL_ZONE_PATH      = "/sys/class/thermal/thermal_zone0/temp"
)
