package kafka_client

import "github.com/spacesedan/feedbackflow/config"

type KafkaConfig struct {
	Broker       string
	GroupID      string
	RequestTopic string
	ResultTopic  string
}

func NewKafkaConfig(cfg config.Config) KafkaConfig {
	kc := KafkaConfig{
		Broker:       cfg.KafkaBroker,
		GroupID:      cfg.KafkaGroupID,
		RequestTopic: cfg.KafkaRequestTopic,
		ResultTopic:  cfg.KafkaResultTopic,
	}
	if kc.Broker == "" {
		kc.Broker = "localhost:29092"
	}
	if kc.GroupID == "" {
		kc.GroupID = "feedbackflow-analysis"
	}
	if kc.RequestTopic == "" {
		kc.RequestTopic = KAFKA_TOPIC_ANALYSIS_REQUESTS
	}
	if kc.ResultTopic == "" {
		kc.ResultTopic = KAFKA_TOPIC_ANALYSIS_RESULTS
	}
	return kc
}
