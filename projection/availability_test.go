package projection

import (
	"testing"

	"github.com/TpPoom/POS-System/models"
)

func table(name string) models.Table {
	return models.Table{Table_id: "id-" + name, Name: name, Size: 4}
}

func TestProjectMarksTablesWithOpenOrders(t *testing.T) {
	tables := []models.Table{table("T1"), table("T2"), table("T3")}
	orders := []models.Order{
		{Order_id: "000007", Table: "T3", Status: models.OrderPending},
		{Order_id: "000005", Table: "T1", Status: models.OrderPaid},
	}

	views := Project(tables, orders)
	if len(views) != 3 {
		t.Fatalf("expected a view per table, got %d", len(views))
	}

	byName := map[string]string{}
	for _, v := range views {
		byName[v.Name] = v.Status
	}

	if byName["T3"] != Unavailable {
		t.Fatalf("T3 has an open order, want Unavailable, got %s", byName["T3"])
	}
	if byName["T1"] != Available {
		t.Fatalf("T1's order is paid, want Available, got %s", byName["T1"])
	}
	if byName["T2"] != Available {
		t.Fatalf("T2 has no order, want Available, got %s", byName["T2"])
	}
}

func TestProjectAfterSettlement(t *testing.T) {
	tables := []models.Table{table("T3")}
	order := models.Order{Order_id: "000007", Table: "T3", Status: models.OrderPending}

	views := Project(tables, []models.Order{order})
	if views[0].Status != Unavailable {
		t.Fatalf("before settlement: want Unavailable, got %s", views[0].Status)
	}

	order.Status = models.OrderPaid
	views = Project(tables, []models.Order{order})
	if views[0].Status != Available {
		t.Fatalf("after settlement: want Available, got %s", views[0].Status)
	}
}

func TestProjectEmptyInputs(t *testing.T) {
	if views := Project(nil, nil); len(views) != 0 {
		t.Fatalf("no tables means no views, got %d", len(views))
	}

	views := Project([]models.Table{table("T1")}, nil)
	if len(views) != 1 || views[0].Status != Available {
		t.Fatalf("table without orders must be Available, got %+v", views)
	}
}
