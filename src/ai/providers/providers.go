package providers

import (
	_ "github.com/stake-plus/medshield/src/ai/gemini"
)
