package params

import "time"

// Strategy names label stoppages by the algorithm that produced them.
// These values travel through exports and merged-label joins,
// so changing one is a wire-format change.
const (
	AlgorithmTimeGap    = "Time-Gap"
	AlgorithmSpeed      = "Speed-Based"
	AlgorithmClustering = "Location Clustering"
	AlgorithmHybrid     = "Hybrid Multi-Criteria"
)

// TimeGapConfig parameterizes gap-in-the-record detection:
// a long quiet interval between two fixes that barely moved.
type TimeGapConfig struct {
	MinGapMinutes     float64 `mapstructure:"min-gap-minutes"`
	MaxDistanceMeters float64 `mapstructure:"max-distance-meters"`
}

// SpeedConfig parameterizes the low-reported-speed run detector.
type SpeedConfig struct {
	MaxSpeedKmh        float64 `mapstructure:"max-speed-kmh"`
	MinDurationMinutes float64 `mapstructure:"min-duration-minutes"`

	// DistanceToleranceMeters is declared for compatibility with
	// external configuration surfaces. The detector does not read it.
	DistanceToleranceMeters float64 `mapstructure:"distance-tolerance-meters"`
}

// ClusterConfig parameterizes greedy incremental spatial clustering.
// A non-positive radius degenerates to one cluster per fix.
type ClusterConfig struct {
	ClusterRadiusMeters float64 `mapstructure:"cluster-radius-meters"`
	MinPointsInCluster  int     `mapstructure:"min-points-in-cluster"`
	MinDurationMinutes  float64 `mapstructure:"min-duration-minutes"`
}

// HybridConfig weights the re-scoring of candidates pooled from the
// other three strategies. Weights are expected in [0,1].
type HybridConfig struct {
	SpeedWeight         float64 `mapstructure:"speed-weight"`
	TimeWeight          float64 `mapstructure:"time-weight"`
	LocationWeight      float64 `mapstructure:"location-weight"`
	ConfidenceThreshold float64 `mapstructure:"confidence-threshold"`
}

// MergeConfig bounds cross-strategy reconciliation: candidates within
// Distance of a group seed and within Interval of its start time join
// that group.
type MergeConfig struct {
	DistanceMeters float64       `mapstructure:"distance-meters"`
	Interval       time.Duration `mapstructure:"interval"`
}

// DetectionConfig is the single read-only configuration object for a
// detection run. One variant per strategy; adding a strategy means
// adding a field here, and the compiler will find the switch sites.
type DetectionConfig struct {
	// SegmentationInterval splits an asset's record into trips wherever
	// consecutive fixes are further apart in time than this.
	SegmentationInterval time.Duration `mapstructure:"segmentation-interval"`

	TimeGap TimeGapConfig `mapstructure:"timegap"`
	Speed   SpeedConfig   `mapstructure:"speed"`
	Cluster ClusterConfig `mapstructure:"cluster"`
	Hybrid  HybridConfig  `mapstructure:"hybrid"`
	Merge   MergeConfig   `mapstructure:"merge"`

	// Workers bounds per-trip detection parallelism.
	Workers int `mapstructure:"workers"`
}

func DefaultDetectionConfig() *DetectionConfig {
	return &DetectionConfig{
		SegmentationInterval: 60 * time.Minute,
		TimeGap: TimeGapConfig{
			MinGapMinutes:     5,
			MaxDistanceMeters: 500,
		},
		Speed: SpeedConfig{
			MaxSpeedKmh:             5,
			MinDurationMinutes:      2,
			DistanceToleranceMeters: 100,
		},
		Cluster: ClusterConfig{
			ClusterRadiusMeters: 150,
			MinPointsInCluster:  3,
			MinDurationMinutes:  3,
		},
		Hybrid: HybridConfig{
			SpeedWeight:         0.4,
			TimeWeight:          0.3,
			LocationWeight:      0.3,
			ConfidenceThreshold: 0.6,
		},
		Merge: MergeConfig{
			DistanceMeters: 100,
			Interval:       30 * time.Minute,
		},
		Workers: 8,
	}
}
