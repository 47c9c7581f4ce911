package render

import (
	"fmt"
	"html/template"
)

// Fragments are rebuilt wholesale on every render; the snapshot gate
// upstream makes full replacement cheap enough that no incremental
// patching is needed.
var fragments = template.Must(template.New("fragments").Funcs(template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}).Parse(`
{{define "academic_years"}}
<div class="panel-fragment" data-panel="academic-years">
  <div class="card active-year-card mb-3">
    <div class="card-body">
      <h5 class="card-title">Active School Year</h5>
      <p class="card-text active-year-label">{{.Header}}</p>
    </div>
  </div>
  <table class="table table-striped align-middle">
    <thead>
      <tr><th>School Year</th><th>Semester</th><th>Status</th><th>Created</th><th></th></tr>
    </thead>
    <tbody>
    {{range .Years}}
      <tr data-id="{{.ID}}">
        <td>{{.StartYear}} - {{.EndYear}}</td>
        <td>{{.Semester}}</td>
        <td>
          {{if .Active}}<span class="badge bg-success">Active</span>
          {{else}}<span class="badge bg-secondary">{{.Status}}</span>{{end}}
        </td>
        <td>{{.CreatedAt}}</td>
        <td class="text-end">
          {{if not .Active}}
          <button class="btn btn-sm btn-primary" data-action="activate-year" data-id="{{.ID}}">Activate</button>
          {{end}}
          <button class="btn btn-sm btn-outline-secondary" data-action="switch-year" data-id="{{.ID}}">Switch Semester</button>
        </td>
      </tr>
    {{else}}
      <tr><td colspan="5" class="text-center text-muted">No academic years found.</td></tr>
    {{end}}
    </tbody>
  </table>
  {{template "pagination" .Pagination}}
</div>
{{end}}

{{define "accreditation"}}
<div class="panel-fragment" data-panel="accreditation" data-view="{{.Mode}}">
  {{if eq .Mode "table"}}
  <table class="table org-table">
    <thead><tr><th>Organization</th><th>Adviser</th><th>Status</th><th>Documents</th></tr></thead>
    <tbody>
    {{range .Orgs}}
      <tr data-id="{{.ID}}">
        <td>{{.Name}}</td>
        <td>{{.Adviser}}</td>
        <td><span class="badge org-status status-{{.Status}}">{{.Status}}</span></td>
        <td>{{len .Files}}</td>
      </tr>
    {{else}}
      <tr><td colspan="4" class="text-center text-muted">No organizations in this school year.</td></tr>
    {{end}}
    </tbody>
  </table>
  {{else}}
  {{range .Orgs}}
  <div class="card org-card mb-3" data-id="{{.ID}}">
    <div class="card-header d-flex justify-content-between">
      <span class="org-name">{{.Name}}</span>
      <span class="badge org-status status-{{.Status}}">{{.Status}}</span>
    </div>
    <div class="card-body">
      <p class="text-muted mb-2">Adviser: {{.Adviser}}</p>
      <table class="table table-sm doc-checklist">
        <thead><tr><th>Document</th><th>Group</th><th>Status</th><th>Reason</th><th></th></tr></thead>
        <tbody>
        {{range .Files}}
          <tr data-id="{{.ID}}">
            <td>{{.DocType}}</td>
            <td>{{.DocGroup}}</td>
            <td><span class="badge doc-status status-{{.Status}}">{{.Status}}</span></td>
            <td>{{.Reason}}</td>
            <td class="text-end">
              <button class="btn btn-sm btn-success" data-action="approve-file" data-id="{{.ID}}"{{if not .Enabled}} disabled{{end}}>Approve</button>
              <button class="btn btn-sm btn-danger" data-action="decline-file" data-id="{{.ID}}"{{if not .Enabled}} disabled{{end}}>Decline</button>
              <button class="btn btn-sm btn-outline-primary" data-action="review-file" data-id="{{.ID}}"{{if not .Enabled}} disabled{{end}}>Mark Reviewed</button>
              {{if .Replaceable}}
              <button class="btn btn-sm btn-warning" data-action="replace-file" data-id="{{.ID}}">Replace</button>
              {{end}}
            </td>
          </tr>
        {{end}}
        </tbody>
      </table>
    </div>
  </div>
  {{else}}
  <p class="text-center text-muted">No organizations in this school year.</p>
  {{end}}
  {{end}}
  {{template "pagination" .Pagination}}
</div>
{{end}}

{{define "events"}}
<div class="panel-fragment" data-panel="events">
  {{range .Events}}
  <div class="card event-card mb-3" data-id="{{.ID}}">
    <div class="card-header d-flex justify-content-between">
      <span class="event-name">{{.Name}}</span>
      <span class="text-muted">{{.Date}} · {{.Venue}}</span>
    </div>
    <div class="card-body">
      <p class="mb-1">{{.OrgName}}</p>
      <div class="row">
        <div class="col">
          <h6>Credits</h6>
          <ul class="ledger-credits list-unstyled">
          {{range .Credits}}<li data-id="{{.ID}}">{{.Description}} <span class="float-end">{{money .Amount}}</span></li>{{end}}
          </ul>
        </div>
        <div class="col">
          <h6>Debits</h6>
          <ul class="ledger-debits list-unstyled">
          {{range .Debits}}<li data-id="{{.ID}}">{{.Description}} <span class="float-end">{{money .Amount}}</span></li>{{end}}
          </ul>
        </div>
      </div>
      <p class="fw-bold mt-2">Balance: {{money .Balance}}</p>
    </div>
  </div>
  {{else}}
  <p class="text-center text-muted">No events for this period.</p>
  {{end}}
  {{template "pagination" .Pagination}}
</div>
{{end}}

{{define "fees"}}
<div class="panel-fragment" data-panel="fees">
  {{with .Unpaid}}
  <div class="alert alert-warning unpaid-banner" role="alert">
    You have {{.Count}} unpaid fee{{if ne .Count 1}}s{{end}} totaling {{money .Total}}.
  </div>
  {{end}}
  <table class="table table-striped">
    <thead><tr><th>Organization</th><th>Fee</th><th>Semester</th><th>Amount</th><th>Due</th><th>Status</th></tr></thead>
    <tbody>
    {{range .Fees}}
      <tr data-id="{{.ID}}">
        <td>{{.OrgName}}</td>
        <td>{{.Name}}</td>
        <td>{{.Semester}}</td>
        <td>{{money .Amount}}</td>
        <td>{{.DueDate}}</td>
        <td>
          {{if eq .Status "paid"}}<span class="badge bg-success">Paid</span>
          {{else}}<span class="badge bg-danger">Unpaid</span>{{end}}
        </td>
      </tr>
    {{else}}
      <tr><td colspan="6" class="text-center text-muted">No fees for this school year.</td></tr>
    {{end}}
    </tbody>
  </table>
  <h6 class="mt-4">Payment History</h6>
  <table class="table table-sm payment-history">
    <thead><tr><th>Fee</th><th>Organization</th><th>Amount</th><th>Method</th><th>Reference</th><th>Paid At</th></tr></thead>
    <tbody>
    {{range .Payments}}
      <tr data-id="{{.ID}}">
        <td>{{.FeeName}}</td><td>{{.OrgName}}</td><td>{{money .Amount}}</td>
        <td>{{.Method}}</td><td>{{.Reference}}</td><td>{{.PaidAt}}</td>
      </tr>
    {{else}}
      <tr><td colspan="6" class="text-center text-muted">No payments recorded.</td></tr>
    {{end}}
    </tbody>
  </table>
  {{template "pagination" .Pagination}}
</div>
{{end}}

{{define "notifications"}}
<div class="panel-fragment" data-panel="notifications">
  <ul class="list-group notification-list">
  {{range .Notifications}}
    <li class="list-group-item d-flex justify-content-between{{if not .Read}} fw-bold unread{{end}}" data-id="{{.ID}}">
      <span>{{.Message}}</span>
      <span>
        <small class="text-muted">{{.CreatedAt}}</small>
        {{if not .Read}}
        <button class="btn btn-sm btn-link" data-action="mark-read" data-id="{{.ID}}">Mark read</button>
        {{end}}
      </span>
    </li>
  {{else}}
    <li class="list-group-item text-center text-muted">No notifications.</li>
  {{end}}
  </ul>
</div>
{{end}}

{{define "announcements"}}
<div class="panel-fragment" data-panel="announcements">
  {{range .Announcements}}
  <div class="card announcement-card mb-2" data-id="{{.ID}}">
    <div class="card-body">
      <h6 class="card-title">{{.Title}}</h6>
      <p class="card-text">{{.Body}}</p>
      <small class="text-muted">{{.PostedBy}} · {{.PostedAt}}</small>
    </div>
  </div>
  {{else}}
  <p class="text-center text-muted">No announcements.</p>
  {{end}}
  {{template "pagination" .Pagination}}
</div>
{{end}}

{{define "pagination"}}
{{if .}}
<nav class="panel-pagination" data-page="{{.Page}}" data-total-pages="{{.TotalPages}}">
  <ul class="pagination pagination-sm justify-content-center">
    <li class="page-item{{if le .Page 1}} disabled{{end}}"><a class="page-link" data-action="page-prev" href="#">Previous</a></li>
    <li class="page-item disabled"><span class="page-link">{{.Page}} / {{.TotalPages}}</span></li>
    <li class="page-item{{if ge .Page .TotalPages}} disabled{{end}}"><a class="page-link" data-action="page-next" href="#">Next</a></li>
  </ul>
</nav>
{{end}}
{{end}}
`))
