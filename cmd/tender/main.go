// Tender evaluates procurement bids under the SME, national product and
// high-value project preference policies.
//
// Usage:
//
//	# Evaluate an SME tender from a file
//	tender evaluate sme --input bids.yaml
//
//	# Evaluate inline JSON and print CSV
//	tender evaluate national --input '{"bidders":[...]}' --format csv
//
//	# Run the evaluation server
//	tender serve --config config.yaml
//
//	# Generate a receipt signing key and verify a receipt
//	tender receipt keygen --out ./keys
//	tender receipt verify --receipt receipt.b64 --public-key ./keys/receipt_public.pem
//
// Exit codes:
//
//	0 - success (a winner was selected, or the receipt verified)
//	1 - no winner, or receipt verification failed
//	2 - invalid input or runtime error
package main

func main() {
	Execute()
}
