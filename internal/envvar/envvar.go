package envvar

const (
	// VoicestudioEnv is the environment variable used to determine the environment.
	VoicestudioEnv = "VOICESTUDIO_ENV"

	// VoicestudioConfigMode selects the config reload policy: static, reload or watch.
	VoicestudioConfigMode = "VOICESTUDIO_CONFIG_MODE"

	// VoicestudioServerHTTPPort overrides the HTTP port of the proxy server.
	VoicestudioServerHTTPPort = "VOICESTUDIO_SERVER_HTTP_PORT"

	// VoicestudioProxyURL is the base URL the terminal studio talks to.
	VoicestudioProxyURL = "VOICESTUDIO_PROXY_URL"

	// VoicestudioPlayer overrides the audio player binary used by the terminal studio.
	VoicestudioPlayer = "VOICESTUDIO_PLAYER"

	// ElevenLabsAPIKey is the provider credential.
	ElevenLabsAPIKey = "ELEVENLABS_API_KEY"

	// ElevenLabsModelID overrides the default model identifier.
	ElevenLabsModelID = "ELEVENLABS_MODEL_ID"

	// ElevenLabsOptimizeStreamingLatency overrides the default latency optimization (0, 1 or 2).
	ElevenLabsOptimizeStreamingLatency = "ELEVENLABS_OPTIMIZE_STREAMING_LATENCY"
)
