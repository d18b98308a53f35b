package analysis

import (
	covenantDomain "coven-backend/internal/domain/covenant"
)

const summarySystemPrompt = `You are a senior credit risk analyst at a major financial institution.
Provide concise, professional executive summaries for loan facilities.
Be direct and highlight key risks if any exist. Maximum 4 sentences.`

const explanationSystemPrompt = `You are a credit risk expert explaining covenant compliance to stakeholders.
Be clear, educational, and professional. Include actionable insights when relevant.
Tailor your explanation to the specific status of the covenant.`

const predictionSystemPrompt = `You are a quantitative risk analyst specializing in credit risk modeling.
Analyze covenant data and provide breach probability predictions.
Be realistic and base predictions on the current status and trends.
For each covenant, provide a JSON object with these exact fields:
- probability (0-100 integer)
- trend ("improving", "stable", or "deteriorating")
- predicted_breach_date (ISO date string or "N/A" or "Already breached")
- explanation (1-2 sentences)`

const whatChangedSystemPrompt = `You are a credit monitoring specialist providing status updates.
Summarize recent activity clearly and highlight any items requiring attention.
Use markdown formatting for better readability.`

const extractionSystemPrompt = `You are an expert in parsing loan agreements and credit facility documentation.
Extract structured information and return it as valid JSON.
Be thorough and accurate. Extract exact thresholds and requirements.`

// statusHints drive the explanation prompt; one fixed hint per lifecycle
// status.
var statusHints = map[covenantDomain.ComplianceStatus]string{
	covenantDomain.StatusCompliant: "The covenant is currently being met. Explain why this is positive and what to monitor.",
	covenantDomain.StatusAtRisk:    "The covenant is approaching breach. Explain the urgency and recommended actions.",
	covenantDomain.StatusBreached:  "The covenant has been breached. Explain implications and immediate steps needed.",
	covenantDomain.StatusUpcoming:  "The covenant test is upcoming. Explain what needs to be prepared.",
	covenantDomain.StatusWaived:    "The covenant has been waived. Explain what this means and any conditions.",
}

// How much document text the extraction prompt may carry.
const maxDocumentChars = 12000

const noChangesMessage = "No significant changes detected. The loan continues to perform as expected with all monitoring activities on schedule."
