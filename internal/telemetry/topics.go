package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// TopicConfig describes one topic to create on the telemetry cluster.
type TopicConfig struct {
	TopicName         string `json:"topic_name"`
	PartitionsCount   int    `json:"partitions_count"`
	ReplicationFactor int    `json:"replication_factor"`
}

// clusterList is the v3 clusters response; only the id is needed.
type clusterList struct {
	Data []struct {
		ClusterID string `json:"cluster_id"`
	} `json:"data"`
}

// CreateTopics provisions the action and summary topics on the
// telemetry cluster. Existing topics are left alone. Unlike Submit this
// is an administrative operation, so failures are real errors.
func (c *Client) CreateTopics(ctx context.Context) error {
	clusterID, err := c.clusterID(ctx)
	if err != nil {
		return err
	}

	for _, suffix := range []string{"action", "summary"} {
		cfg := TopicConfig{
			TopicName:         c.Namespace + "." + suffix,
			PartitionsCount:   1,
			ReplicationFactor: 3,
		}
		if err := c.createTopic(ctx, clusterID, cfg); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) clusterID(ctx context.Context) (string, error) {
	url := c.BaseURL + "/v3/clusters"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating cluster list request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("listing clusters: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cluster list returned status %d", resp.StatusCode)
	}

	var clusters clusterList
	if err := json.NewDecoder(resp.Body).Decode(&clusters); err != nil {
		return "", fmt.Errorf("parsing cluster list: %w", err)
	}
	if len(clusters.Data) == 0 {
		return "", fmt.Errorf("telemetry cluster list is empty")
	}
	return clusters.Data[0].ClusterID, nil
}

func (c *Client) createTopic(ctx context.Context, clusterID string, cfg TopicConfig) error {
	body, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding topic config: %w", err)
	}

	url := fmt.Sprintf("%s/v3/clusters/%s/topics", c.BaseURL, clusterID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating topic request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("creating topic %s: %w", cfg.TopicName, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		c.Logger.Info("telemetry topic created", "topic", cfg.TopicName)
		return nil
	case resp.StatusCode == http.StatusConflict:
		// Already exists.
		c.Logger.Debug("telemetry topic already exists", "topic", cfg.TopicName)
		return nil
	default:
		return fmt.Errorf("creating topic %s: status %d", cfg.TopicName, resp.StatusCode)
	}
}
