package report

import (
	"sort"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/aggregation"
)

// AssembleOptions carries everything Assemble needs to build one
// AnalysisReport.
type AssembleOptions struct {
	ReportID            string
	PlanID              string
	InputPDFSHA256      string
	QuestionnaireSHA256 string
	Macro               aggregation.MacroScore
	Clusters            []aggregation.ClusterScore
	Areas               []aggregation.AreaScore
	Dimensions          []aggregation.DimensionScore
	Micro               []MicroRow
}

// Assemble builds the AnalysisReport from the aggregated scores, the
// per-question evidence digests, and the synthesized narratives,
// sorting every level into its canonical order so the report is
// independent of the caller's emission order.
func Assemble(opts AssembleOptions) *AnalysisReport {
	micro := append([]MicroRow{}, opts.Micro...)
	sort.Slice(micro, func(i, j int) bool { return micro[i].QuestionID < micro[j].QuestionID })

	dims := append([]aggregation.DimensionScore{}, opts.Dimensions...)
	sort.Slice(dims, func(i, j int) bool {
		if dims[i].PolicyAreaID != dims[j].PolicyAreaID {
			return dims[i].PolicyAreaID < dims[j].PolicyAreaID
		}
		return dims[i].DimensionID < dims[j].DimensionID
	})

	areas := append([]aggregation.AreaScore{}, opts.Areas...)
	sort.Slice(areas, func(i, j int) bool { return areas[i].PolicyAreaID < areas[j].PolicyAreaID })

	clusters := append([]aggregation.ClusterScore{}, opts.Clusters...)
	sort.Slice(clusters, func(i, j int) bool { return clusters[i].ClusterID < clusters[j].ClusterID })

	return &AnalysisReport{
		ReportID:            opts.ReportID,
		PlanID:              opts.PlanID,
		InputPDFSHA256:      opts.InputPDFSHA256,
		QuestionnaireSHA256: opts.QuestionnaireSHA256,
		Macro:               opts.Macro,
		Clusters:            clusters,
		Areas:               areas,
		Dimensions:          dims,
		Micro:               micro,
	}
}
