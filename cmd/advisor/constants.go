package advisorcmd

const (
	defaultConfigPath = "./config.yaml"

	runCommandUse      = "run QUERY"
	runCommandShort    = "Run one customer query through the advisory pipeline"
	serveCommandUse    = "serve"
	serveCommandShort  = "Serve the advisory pipeline over HTTP"
	agentsCommandUse   = "agents"
	agentsCommandShort = "List the pipeline stages and their models"

	configFlagName         = "config"
	configFlagUsage        = "Path to unified config.yaml"
	modelFlagName          = "model"
	modelFlagUsage         = "Override the default model by name (must exist in models[])"
	maxRevisionsFlagName   = "max-revisions"
	maxRevisionsFlagUsage  = "Ceiling for the compliance revision loop (0 = use defaults)"
	timeoutFlagName        = "timeout"
	timeoutFlagUsage       = "Per-stage timeout (e.g., 90s; 0 = use defaults)"
	transcriptDirFlagName  = "transcripts"
	transcriptDirFlagUsage = "Directory for per-turn audit transcripts (empty = disabled)"
	serverAddressFlagName  = "addr"
	serverAddressFlagUsage = "Listen address for the HTTP server"
	htmlFlagName           = "html"
	htmlFlagUsage          = "Render the published advisory as HTML instead of markdown"

	defaultAPIEndpoint   = "https://api.openai.com/v1"
	defaultAPIKeyEnvName = "OPENAI_API_KEY"
	defaultServerAddress = ":8091"
	dashPlaceholder      = "-"
)

const (
	configurationLoaderInitializationErrorFormat = "initialize configuration loader: %w"
	configurationSourceResolutionErrorFormat     = "resolve configuration source: %w"
	rootConfigurationLoadErrorFormat             = "load root configuration %s: %w"
)
