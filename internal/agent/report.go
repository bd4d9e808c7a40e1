package agent

import "fmt"

// BuildFinalReport summarizes a bulk-approval run: which agents succeeded,
// which failed, and how much money moved.
func BuildFinalReport(executionResults map[string]any) map[string]any {
	var successful, failed []string
	totalAmount := 0.0

	for _, agentName := range []string{PaymentsAgent, RiskAgent, InvestmentAgent} {
		raw, ok := executionResults[agentName]
		if !ok {
			continue
		}
		result, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		if errMsg, ok := result["error"].(string); ok {
			failed = append(failed, fmt.Sprintf("%s: %s", agentName, errMsg))
			continue
		}

		action, _ := result["action"].(string)
		if action == "" {
			action = "İşlem tamamlandı"
		}
		successful = append(successful, fmt.Sprintf("%s: %s", agentName, action))

		if inner, ok := result["result"].(map[string]any); ok {
			if amount, ok := inner["amount"].(float64); ok {
				totalAmount += amount
			}
		}
	}

	status := "completed"
	if len(failed) > 0 {
		status = "partial"
	}

	return map[string]any{
		"summary":                fmt.Sprintf("Toplam %d agent başarıyla çalıştırıldı", len(successful)),
		"successful_operations":  successful,
		"failed_operations":      failed,
		"total_amount_processed": totalAmount,
		"recommendations": []string{
			"Düzenli olarak portföyünüzü gözden geçirin",
			"Risk toleransınıza uygun yatırımlar yapın",
			"Acil durum fonunuzu koruyun",
		},
		"next_steps": []string{
			"Yatırım performansını takip edin",
			"Piyasa koşullarını gözlemleyin",
			"Finansal hedeflerinizi güncelleyin",
		},
		"status": status,
	}
}
