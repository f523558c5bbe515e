package explain

import (
	"bytes"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"racket-backend/internal/catalog"
	"racket-backend/internal/recommend"
)

// BuildPrompt renders the explanation prompt for q and recs. Output is deterministic for equal inputs.
func BuildPrompt(q recommend.Query, recs []catalog.Racket) (string, error) {
	list, err := encodeRecommendations(recs)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("你是羽毛球拍专家。根据用户需求和已筛选出的拍子列表，生成一段中文推荐说明，内容需包括：\n")
	b.WriteString("1. 每支拍子的亮点与适用人群；\n")
	b.WriteString("2. 为什么符合用户的需求（水平/打法/硬度/预算）；\n")
	b.WriteString("3. 如有必要，给出保养或购买建议。\n\n")
	b.WriteString("用户需求：\n")
	fmt.Fprintf(&b, "- 水平：%s\n", q.Level)
	fmt.Fprintf(&b, "- 打法：%s\n", q.Style)
	fmt.Fprintf(&b, "- 拍框硬度：%s\n", q.Stiffness)
	fmt.Fprintf(&b, "- 预算上限：¥%d\n\n", q.Budget)
	b.WriteString("已筛选列表（JSON）：\n")
	b.WriteString(list)
	b.WriteString("\n\n请按序号分点描述，条理清晰，语气专业但通俗易懂。")
	if len(recs) == 0 {
		b.WriteString("列表为空时，请说明没有完全符合条件的球拍，并建议用户适当调整预算或偏好。")
	}
	b.WriteString("\n")
	return b.String(), nil
}

// encodeRecommendations renders recs as a compact JSON array with non-ASCII text left unescaped.
func encodeRecommendations(recs []catalog.Racket) (string, error) {
	if recs == nil {
		recs = []catalog.Racket{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(recs); err != nil {
		return "", fmt.Errorf("encode recommendations: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
