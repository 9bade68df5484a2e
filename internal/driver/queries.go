package driver

const (
	SaveAuditRunQuery = `
		MERGE (p:Page {url: $page_url})
		MERGE (r:AuditRun {uuid: $uuid})
		SET r.page_url = $page_url,
			r.status = $status,
			r.compared_at = $compared_at,
			r.total_differences = $total_differences,
			r.systemic_count = $systemic_count,
			r.diff_pixel_count = $diff_pixel_count,
			r.report_json = $report_json
		MERGE (p)-[:HAS_RUN]->(r)
		RETURN r.uuid AS uuid
	`

	SaveIssueQuery = `
		MATCH (r:AuditRun {uuid: $run_uuid})
		CREATE (i:Issue {
			run_uuid: $run_uuid,
			kind: $kind,
			type: $type,
			selector: $selector,
			severity: $severity,
			description: $description,
			recommendation: $recommendation
		})
		MERGE (r)-[:FOUND]->(i)
		RETURN i.run_uuid AS run_uuid
	`

	GetAuditRunQuery = `
		MATCH (r:AuditRun {uuid: $uuid})
		RETURN r.uuid AS uuid,
			r.page_url AS page_url,
			r.status AS status,
			r.compared_at AS compared_at,
			r.total_differences AS total_differences,
			r.systemic_count AS systemic_count,
			r.report_json AS report_json
	`

	RecentAuditRunsQuery = `
		MATCH (p:Page {url: $page_url})-[:HAS_RUN]->(r:AuditRun)
		RETURN r.uuid AS uuid,
			r.page_url AS page_url,
			r.status AS status,
			r.compared_at AS compared_at,
			r.total_differences AS total_differences,
			r.systemic_count AS systemic_count
		ORDER BY r.compared_at DESC
		LIMIT $limit
	`
)
