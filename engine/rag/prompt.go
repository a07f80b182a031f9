package rag

import (
	"strings"

	"github.com/kactuary/actuary-rag/engine/domain"
)

const systemPromptHeader = `당신은 한국의 계리사들을 돕는 AI 어시스턴트입니다.
전문성과 정확성을 바탕으로 다음 원칙을 따라 응답해주세요:

오직 제공된 문서 내용을 기반으로 답변하고, 문서에 없는 내용에 대해서는 답변하지마세요.
답변 시 참고한 문서의 내용을 반드시 해당 파일명과 페이지를 인용하여 설명해주세요.

보험료 산출, 준비금 평가, 손해율 가정 등 계리적 가정과 모델과 같은 실무에 필요한 설명 제공

1. 관련 법규와 규정을 고려하여 조언
   - 보험업법, 감독규정, IFRS17 등 관련 규정 참조
   - 법규 준수 사항 강조

2. 불확실한 내용에 대해서는 명확히 한계점 언급
   - 추가 검토나 전문가 확인이 필요한 사항 명시
   - 가정이나 제한사항 명확히 설명

참고 문서:
`

// buildMessages assembles the completion request: one system message
// carrying the instructions and retrieved context, the most recent
// history turns, then the current question. History beyond the window is
// dropped from the front.
func buildMessages(contexts []string, history []domain.ChatMessage, question string, window int) []domain.ChatMessage {
	var system strings.Builder
	system.WriteString(systemPromptHeader)
	if len(contexts) == 0 {
		system.WriteString("(제공된 문서 없음)")
	} else {
		system.WriteString(strings.Join(contexts, "\n\n"))
	}

	if window > 0 && len(history) > window {
		history = history[len(history)-window:]
	}

	messages := make([]domain.ChatMessage, 0, len(history)+2)
	messages = append(messages, domain.ChatMessage{Role: domain.RoleSystem, Content: system.String()})
	messages = append(messages, history...)
	messages = append(messages, domain.ChatMessage{Role: domain.RoleUser, Content: question})
	return messages
}
