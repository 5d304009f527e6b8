// Package scoring holds the evaluation metric of the sales competition and
// small numeric helpers shared by model evaluation code.
package scoring
