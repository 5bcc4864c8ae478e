package domain

// Performance é o resultado do probe de PageSpeed (inclui o sinal mobile).
type Performance struct {
	Score           int
	LoadTimeSeconds float64
	MobileFriendly  bool
}

type Security struct {
	Secure bool
}

// Mention indica se um modelo generativo citou o domínio.
type Mention struct {
	Mentioned bool
}

// StructuredData indica JSON-LD com um tipo schema.org reconhecido.
type StructuredData struct {
	Present bool
}

// Outcomes junta o resultado (ou fallback) dos cinco probes.
type Outcomes struct {
	Performance    Performance
	Security       Security
	ChatGPT        Mention
	Gemini         Mention
	StructuredData StructuredData
}

// Report é o relatório devolvido ao cliente e enviado por e-mail.
// Imutável depois de calculado.
type Report struct {
	Score           int     `json:"score" yaml:"score"`
	PageSpeed       int     `json:"pageSpeed" yaml:"pageSpeed"`
	LoadTime        float64 `json:"loadTime" yaml:"loadTime"`
	MobileFriendly  bool    `json:"mobileFriendly" yaml:"mobileFriendly"`
	HTTPS           bool    `json:"https" yaml:"https"`
	ChatGPTCitation bool    `json:"chatGPTCitation" yaml:"chatGPTCitation"`
	GeminiCitation  bool    `json:"geminiCitation" yaml:"geminiCitation"`
	SchemaMarkup    bool    `json:"schemaMarkup" yaml:"schemaMarkup"`
}

func NewReport(o Outcomes, score int) Report {
	return Report{
		Score:           score,
		PageSpeed:       o.Performance.Score,
		LoadTime:        o.Performance.LoadTimeSeconds,
		MobileFriendly:  o.Performance.MobileFriendly,
		HTTPS:           o.Security.Secure,
		ChatGPTCitation: o.ChatGPT.Mentioned,
		GeminiCitation:  o.Gemini.Mentioned,
		SchemaMarkup:    o.StructuredData.Present,
	}
}

// Level é a faixa de visibilidade do relatório.
type Level string

const (
	LevelGood   Level = "good"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// Summary é o resumo comercial derivado de um Report.
type Summary struct {
	Level       Level
	Emoji       string
	Label       string
	Problems    int
	MonthlyLoss int
}
