package answer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/answerit/core"
)

// groundedPromptTemplate instructs the model to answer strictly from the
// supplied reference material. The prompts are in Vietnamese to match the
// evaluation dataset.
const groundedPromptTemplate = `BẠN LÀ TRỢ LÝ AI TRẢ LỜI CÂU HỎI TRẮC NGHIỆM TIẾNG VIỆT.

THÔNG TIN THAM KHẢO:
%s

NGUYÊN TẮC BẮT BUỘC:
- Chỉ sử dụng thông tin có trong THÔNG TIN THAM KHẢO.
- Không suy đoán, không bịa.
- Nếu câu hỏi nói về nội dung nhạy cảm như chiến tranh, chính sách chính trị, an toàn, quốc phòng, tranh chấp lãnh thổ, chủng tộc thì không trả lời và chọn đáp án gần nghĩa nhất với "Không thể trả lời câu hỏi này".
- Nếu câu hỏi cần tính toán phức tạp, hãy làm từng bước trong suy nghĩ rồi mới đưa ra câu trả lời.

CÁCH XỬ LÝ:
1. Nếu có thể xác định ĐÁP ÁN ĐÚNG từ thông tin, chọn phương án tương ứng.
2. Nếu KHÔNG THỂ xác định đáp án vì thiếu dữ liệu, các phương án đều không được đề cập, hoặc câu hỏi mơ hồ, hãy tìm đáp án gần nghĩa với "Không thể trả lời câu hỏi này".

YÊU CẦU ĐẦU RA:
- Nếu trả lời được, chỉ 1 ký tự: A, B, C, D, ...
- Tuyệt đối không thêm văn bản gì ngoài ký tự chữ cái viết hoa đã chọn.`

// ungroundedPrompt is used when retrieval produced no usable context.
const ungroundedPrompt = `BẠN LÀ HỆ THỐNG TRẢ LỜI CÂU HỎI TRẮC NGHIỆM.

NGUYÊN TẮC:
- Dựa trên kiến thức phổ thông và logic.
- Không bịa đặt thông tin chuyên ngành nếu không chắc chắn.

CÁCH LÀM:
1. Đọc kỹ câu hỏi và tất cả các phương án.
2. Nếu là câu hỏi logic hoặc toán học, hãy suy nghĩ từng bước một cách nội bộ.
3. Chọn phương án đúng hoặc hợp lý nhất.

YÊU CẦU ĐẦU RA:
- CHỈ MỘT KÝ TỰ DUY NHẤT: A, B, C, D, E, ...
- KHÔNG giải thích.
- KHÔNG thêm bất kỳ văn bản nào khác.

VÍ DỤ ĐẦU RA HỢP LỆ:
C`

// formatContext renders retrieval hits as numbered source lines. The
// relevance shown is inverted distance so higher reads as better.
func formatContext(hits []core.RetrievalHit) string {
	lines := make([]string, len(hits))
	for i, hit := range hits {
		lines[i] = fmt.Sprintf("[Source %d, relevance: %.2f] %s", i+1, 1-hit.Distance, hit.Text)
	}
	return strings.Join(lines, "\n")
}

// buildSystemPrompt selects the grounded or ungrounded prompt.
func buildSystemPrompt(context string) string {
	if context == "" {
		return ungroundedPrompt
	}
	return fmt.Sprintf(groundedPromptTemplate, context)
}

// buildUserPrompt renders the question with its choices, one per line.
func buildUserPrompt(q core.Question) string {
	return fmt.Sprintf("Câu hỏi: %s\n\nLựa chọn:\n%s", q.Question, strings.Join(q.Choices, "\n"))
}

// truncateContext caps context at maxChars, preferring to cut at the last
// sentence terminator before the limit. A terminator found shortly past the
// limit wins over a mid-sentence cut. With no terminator in reach, the cut
// is a hard one.
func truncateContext(context string, maxChars int) string {
	if maxChars < 1 || len(context) <= maxChars {
		return context
	}

	const lookahead = 128
	end := maxChars + lookahead
	if end > len(context) {
		end = len(context)
	}

	window := context[:end]
	cut := strings.LastIndexAny(window, ".!?")
	if cut >= 0 && cut+1 >= maxChars/2 {
		return window[:cut+1]
	}

	// No terminator in reach: hard cut on a rune boundary.
	hard := maxChars
	for hard > 0 && !utf8.RuneStart(context[hard]) {
		hard--
	}
	return context[:hard] + "..."
}
