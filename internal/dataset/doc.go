// Package dataset loads pre-computed feature sets and splits them into the
// time-sliced partitions used for model fitting and submission generation.
//
// # Partitions
//
// Rows are selected by their date_block_num (one bucket per calendar month):
//
//	train     date_block_num <= validation-2
//	val       date_block_num == validation
//	trainval  date_block_num <= test-2
//	test      date_block_num == test
//
// The gap of one bucket before each evaluation month mirrors the label lag of
// the competition data and must be kept as is. Before slicing, the target is
// clipped to [0, 20] and a time_of_year column, (date_block_num+6) mod 12, is
// appended.
//
// # Submission ordering
//
// When the test partition is requested, each test row is matched to its
// submission ID through the (shop_id, item_id) pairs of test.csv. The result
// is a Permutation: TestToSubmission maps a test row to its ID and
// SubmissionToTest maps an ID back to the test row, so predictions made in
// test-row order can be reordered for the submission file:
//
//	loader := dataset.NewLoader(logger, "data")
//	features, err := loader.FeatureSet(ctx, "v3")
//	index, err := loader.SubmissionIndex(ctx)
//	res, err := dataset.NewPartitioner(logger, dataset.DefaultConfig()).
//	    Partition(ctx, features, index, dataset.ModeTest)
//	ordered := res.Permutation.Reorder(predictions)
package dataset
