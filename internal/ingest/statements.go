package ingest

import "strings"

// Every statement merges the primary entity on its natural key only, flags a
// fresh create with a transient property, and overwrites descriptive
// attributes afterwards. Optional attributes use coalesce so an absent value
// never clears a stored one.

func (r CallRecord) Statement(batch string) (string, map[string]any) {
	const q = `MERGE (p1:Phone {phone_number: $from_phone})
MERGE (p2:Phone {phone_number: $to_phone})
MERGE (p1)-[c:MADE {call_id: $call_id}]->(p2)
ON CREATE SET c._created = true
WITH c, coalesce(c._created, false) AS created
REMOVE c._created
SET c.duration = $duration,
    c.timestamp = $timestamp,
    c.call_type = $call_type,
    c.ingest_batch = $batch
RETURN created`
	return q, map[string]any{
		"from_phone": r.FromPhone,
		"to_phone":   r.ToPhone,
		"call_id":    r.CallID,
		"duration":   r.Duration,
		"timestamp":  r.Timestamp,
		"call_type":  r.CallType,
		"batch":      batch,
	}
}

func (r TransactionRecord) Statement(batch string) (string, map[string]any) {
	const q = `MERGE (b1:BankAccount {account_number: $from_account})
MERGE (b2:BankAccount {account_number: $to_account})
MERGE (b1)-[t:SENT {transaction_id: $transaction_id}]->(b2)
ON CREATE SET t._created = true
WITH t, coalesce(t._created, false) AS created
REMOVE t._created
SET t.amount = $amount,
    t.timestamp = $timestamp,
    t.transaction_type = $transaction_type,
    t.ingest_batch = $batch
RETURN created`
	return q, map[string]any{
		"from_account":     r.FromAccount,
		"to_account":       r.ToAccount,
		"transaction_id":   r.TransactionID,
		"amount":           r.Amount,
		"timestamp":        r.Timestamp,
		"transaction_type": r.TransactionType,
		"batch":            batch,
	}
}

func (r DeviceRecord) Statement(batch string) (string, map[string]any) {
	var b strings.Builder
	b.WriteString(`MERGE (d:Device {device_id: $device_id})
ON CREATE SET d._created = true
WITH d, coalesce(d._created, false) AS created
REMOVE d._created
SET d.device_type = coalesce($device_type, d.device_type),
    d.imei = coalesce($imei, d.imei),
    d.ingest_batch = $batch
MERGE (i:IP {ip_address: $ip_address})
MERGE (d)-[v:CONNECTS_VIA]->(i)
SET v.timestamp = $timestamp, v.ingest_batch = $batch
`)
	params := map[string]any{
		"device_id":   r.DeviceID,
		"ip_address":  r.IPAddress,
		"device_type": deref(r.DeviceType),
		"imei":        deref(r.IMEI),
		"timestamp":   r.Timestamp,
		"batch":       batch,
	}
	if r.PhoneNumber != nil {
		b.WriteString(`MERGE (p:Phone {phone_number: $phone_number})
MERGE (p)-[o:RUNS_ON]->(d)
SET o.ingest_batch = $batch
`)
		params["phone_number"] = *r.PhoneNumber
	}
	b.WriteString("RETURN created")
	return b.String(), params
}

func (r SIMRecord) Statement(batch string) (string, map[string]any) {
	var b strings.Builder
	b.WriteString(`MERGE (s:SIM {sim_number: $sim_number})
ON CREATE SET s._created = true
WITH s, coalesce(s._created, false) AS created
REMOVE s._created
SET s.provider = coalesce($provider, s.provider),
    s.activation_date = coalesce($activation_date, s.activation_date),
    s.ingest_batch = $batch
`)
	params := map[string]any{
		"sim_number":      r.SIMNumber,
		"provider":        deref(r.Provider),
		"activation_date": deref(r.ActivationDate),
		"batch":           batch,
	}
	if r.PhoneNumber != nil {
		b.WriteString(`MERGE (p:Phone {phone_number: $phone_number})
MERGE (p)-[h:HAS_SIM]->(s)
SET h.ingest_batch = $batch
`)
		params["phone_number"] = *r.PhoneNumber
	}
	b.WriteString("RETURN created")
	return b.String(), params
}

func (r ComplaintRecord) Statement(batch string) (string, map[string]any) {
	var b strings.Builder
	b.WriteString(`MERGE (c:Complaint {complaint_id: $complaint_id})
ON CREATE SET c._created = true
WITH c, coalesce(c._created, false) AS created
REMOVE c._created
SET c.complaint_type = $complaint_type,
    c.description = coalesce($description, c.description),
    c.timestamp = $timestamp,
    c.severity = $severity,
    c.ingest_batch = $batch
`)
	params := map[string]any{
		"complaint_id":   r.ComplaintID,
		"complaint_type": r.ComplaintType,
		"description":    deref(r.Description),
		"timestamp":      r.Timestamp,
		"severity":       r.Severity,
		"batch":          batch,
	}
	if r.PersonID != nil {
		b.WriteString(`MERGE (p:Person {id: $person_id})
MERGE (p)-[:INVOLVED_IN]->(c)
`)
		params["person_id"] = *r.PersonID
	}
	b.WriteString("RETURN created")
	return b.String(), params
}

// deref maps an absent optional to a Cypher null.
func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
