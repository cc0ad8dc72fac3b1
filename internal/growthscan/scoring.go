// internal/growthscan/scoring.go
package growthscan

// Weight tables for the maturity score. The values came straight from the
// agency's diagnostic playbook and must not be rounded or rescaled.
var (
	revenueScores = map[RevenueTier]int{
		RevenueUpTo30K:    10,
		Revenue30KTo100K:  20,
		Revenue100KTo500K: 30,
		RevenueAbove500K:  40,
	}

	teamScores = map[TeamStructure]int{
		TeamSolo:       5,
		TeamFreelancer: 10,
		TeamAgency:     20,
		TeamInHouse:    30,
	}

	painScores = map[MainPain]int{
		PainChannel:      10, // most basic problem
		PainConversion:   15,
		PainSalesProcess: 20,
		PainBranding:     25, // most sophisticated problem
	}
)

// CalculateMaturityScore sums the weight of each answer. The team structure
// answer is optional and contributes nothing when absent. The result is an
// open range, never clamped (the highest reachable sum is 95).
func CalculateMaturityScore(revenueTier RevenueTier, mainPain MainPain, teamStructure TeamStructure) int {
	score := revenueScores[revenueTier]

	if teamStructure != "" {
		score += teamScores[teamStructure]
	}

	score += painScores[mainPain]

	return score
}

// DetermineArchetype maps a scored answer set to one of the six fixed
// outcomes. Branch order is load-bearing: the categories overlap and the
// first match wins. An up_to_30k tier always short-circuits to the
// validation-stage result, even for a high-score branding pain.
func DetermineArchetype(revenueTier RevenueTier, mainPain MainPain, score int) ArchetypeResult {
	if revenueTier == RevenueUpTo30K {
		return ArchetypeResult{
			Title:       "Fase de Validação",
			Subtitle:    "Seu momento é de construir tração",
			Description: "Você está no caminho certo, mas ainda é cedo para investimentos pesados em agência. Foque em tração orgânica e valide seu produto/serviço antes de escalar.",
			Solution:    "Consultoria Estratégica: Diagnóstico + Primeiros Passos",
			CTAText:     "Conversar com Especialista",
			Icon:        "🌱",
		}
	}

	if mainPain == PainBranding && score >= 40 {
		return ArchetypeResult{
			Title:       "O Gigante Invisível",
			Subtitle:    "Produto excelente, embalagem amadora",
			Description: "Você tem um produto/serviço de alta qualidade, mas sua presença digital não reflete isso. Está deixando dinheiro na mesa por causa da percepção de valor.",
			Solution:    "Rebranding Estratégico + Posicionamento High-Ticket",
			CTAText:     "Falar com Especialista",
			Icon:        "👁️",
		}
	}

	if mainPain == PainConversion && score >= 40 {
		return ArchetypeResult{
			Title:       "A Ferrari sem Gasolina",
			Subtitle:    "Tráfego alto, conversão baixa",
			Description: "Sua máquina de vendas está descalibrada. Você investe em tráfego, mas o site, a oferta ou o público estão desalinhados. Está queimando caixa.",
			Solution:    "Gestão de Tráfego & Otimização de Conversão",
			CTAText:     "Calibrar Minha Máquina",
			Icon:        "🏎️",
		}
	}

	if mainPain == PainChannel {
		return ArchetypeResult{
			Title:       "O Dependente de Indicação",
			Subtitle:    "Sem previsibilidade de vendas",
			Description: "100% das vendas vêm de indicação ou networking. Você não tem controle sobre quando o próximo cliente aparece. Isso é insustentável para crescer.",
			Solution:    "Sistema de Geração de Leads Previsível",
			CTAText:     "Criar Previsibilidade",
			Icon:        "🎲",
		}
	}

	if mainPain == PainSalesProcess {
		return ArchetypeResult{
			Title:       "O Comercial Travado",
			Subtitle:    "Leads entram, vendas não saem",
			Description: "O problema não é marketing, é processo. Seu time comercial não tem metodologia, CRM ou argumentação calibrada. Os leads morrem no funil.",
			Solution:    "Consultoria de Sales Enablement + CRM",
			CTAText:     "Destravar Vendas",
			Icon:        "🔒",
		}
	}

	return ArchetypeResult{
		Title:       "Pronto para Escalar",
		Subtitle:    "Você tem base, falta estratégia",
		Description: "Sua empresa tem faturamento e estrutura, mas está no piloto automático. Falta uma estratégia de crescimento estruturada e data-driven.",
		Solution:    "Consultoria de Crescimento 360°",
		CTAText:     "Agendar Diagnóstico",
		Icon:        "🚀",
	}
}
